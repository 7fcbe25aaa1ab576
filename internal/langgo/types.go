package langgo

import "github.com/monoid-privacy/cpg/internal/source"

// TypeOracle reads explicit syntactic type annotations (the "type" field
// tree-sitter's Go grammar exposes on var_spec, parameter_declaration,
// and similar nodes) and answers "unknown" for everything else — it is
// not a type-checker.
type TypeOracle struct{}

// NewTypeOracle returns a syntactic-annotation-only TypeOracle.
func NewTypeOracle() *TypeOracle { return &TypeOracle{} }

// TypeOf implements source.TypeOracle.
func (o *TypeOracle) TypeOf(n source.Node) (string, bool) {
	w, ok := n.(*node)
	if !ok {
		return "", false
	}
	typeNode := w.n.ChildByFieldName("type")
	if typeNode == nil {
		return "", false
	}
	return typeNode.Content(w.text), true
}
