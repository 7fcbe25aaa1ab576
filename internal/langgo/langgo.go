// Package langgo is the one concrete internal/source.Parser adapter this
// repo ships: it parses Go source with github.com/smacker/go-tree-sitter
// and its bundled Go grammar, wrapping tree-sitter nodes behind the
// internal/source.Node interface so cpg/frontend never imports
// tree-sitter directly.
package langgo

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/monoid-privacy/cpg/internal/source"
)

// Parser parses Go source files with tree-sitter. The zero value is
// usable; each ParseFile call creates and closes its own tree-sitter
// parser.
type Parser struct{}

// NewParser returns a ready-to-use Go source parser.
func NewParser() *Parser { return &Parser{} }

// ParseFile implements source.Parser.
func (p *Parser) ParseFile(path string, content []byte) (*source.File, error) {
	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(golang.GetLanguage())

	tree, err := sp.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("langgo: parse %s: %w", path, err)
	}

	return &source.File{
		Path:   path,
		Source: content,
		Root:   wrap(tree.RootNode(), content),
	}, nil
}

// node adapts a *sitter.Node to source.Node.
type node struct {
	n    *sitter.Node
	text []byte
}

func wrap(n *sitter.Node, text []byte) source.Node {
	if n == nil {
		return nil
	}
	return &node{n: n, text: text}
}

func (w *node) Kind() source.NodeKind { return source.NodeKind(w.n.Type()) }
func (w *node) Text() string          { return w.n.Content(w.text) }

func (w *node) Start() source.Position {
	p := w.n.StartPoint()
	return source.Position{Byte: w.n.StartByte(), Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (w *node) End() source.Position {
	p := w.n.EndPoint()
	return source.Position{Byte: w.n.EndByte(), Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (w *node) Children() []source.Node {
	count := int(w.n.ChildCount())
	out := make([]source.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := w.n.Child(i); c != nil {
			out = append(out, wrap(c, w.text))
		}
	}
	return out
}

func (w *node) ChildByField(name string) (source.Node, bool) {
	c := w.n.ChildByFieldName(name)
	if c == nil {
		return nil, false
	}
	return wrap(c, w.text), true
}

func (w *node) Named() bool { return w.n.IsNamed() }
