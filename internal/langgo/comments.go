package langgo

import (
	"strings"

	"github.com/monoid-privacy/cpg/internal/source"
)

// CommentMap locates the doc comment immediately preceding a
// declaration node by walking that node's previous named siblings,
// since the Go tree-sitter grammar represents "// ..." and "/* ... */"
// comments as their own sibling "comment" nodes rather than trivia
// attached to the node they document.
type CommentMap struct {
	source []byte
}

// NewCommentMap creates a CommentMap over one file's source bytes.
func NewCommentMap(src []byte) *CommentMap {
	return &CommentMap{source: src}
}

// CommentFor implements source.CommentMap.
func (m *CommentMap) CommentFor(n source.Node) (string, bool) {
	w, ok := n.(*node)
	if !ok {
		return "", false
	}

	var lines []string
	sib := w.n.PrevNamedSibling()
	for sib != nil && sib.Type() == "comment" {
		lines = append([]string{cleanComment(sib.Content(m.source))}, lines...)
		sib = sib.PrevNamedSibling()
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func cleanComment(raw string) string {
	raw = strings.TrimPrefix(raw, "//")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")
	return strings.TrimSpace(raw)
}
