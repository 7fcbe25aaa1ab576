package graph

import (
	"testing"

	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/stretchr/testify/assert"
)

func newRecordTU(fqn string, fields ...*Field) *TranslationUnit {
	rec := &Record{Base: NewBase(fqn), FQN: fqn, Kind: RecordStruct, Fields: fields}
	ns := &Namespace{Base: NewBase("pkg"), FQN: "example.com/mod/pkg", Records: []*Record{rec}}
	return &TranslationUnit{Base: NewBase(fqn + ".go"), File: fqn + ".go", Namespaces: []*Namespace{ns}}
}

func TestGraphRecordByFQNLookup(t *testing.T) {
	g := NewGraph()
	g.AddTranslationUnit(newRecordTU("example.com/mod/pkg.T", &Field{Base: NewBase("A"), Type: &types.ObjectType{Name: "int"}}))

	r, ok := g.RecordByFQN("example.com/mod/pkg.T")
	assert.True(t, ok)
	assert.Equal(t, "example.com/mod/pkg.T", r.FQN)
	assert.Len(t, r.Fields, 1)
}

func TestGraphMergesDuplicateRecordFQNAcrossFiles(t *testing.T) {
	g := NewGraph()
	g.AddTranslationUnit(newRecordTU("example.com/mod/pkg.T", &Field{Base: NewBase("A"), Type: &types.ObjectType{Name: "int"}}))
	g.AddTranslationUnit(newRecordTU("example.com/mod/pkg.T", &Field{Base: NewBase("B"), Type: &types.ObjectType{Name: "string"}}))

	assert.Len(t, g.Records(), 1)
	r, ok := g.RecordByFQN("example.com/mod/pkg.T")
	assert.True(t, ok)
	assert.Len(t, r.Fields, 2)
}

func TestGraphNamespaceMergesAcrossFiles(t *testing.T) {
	g := NewGraph()
	g.AddTranslationUnit(newRecordTU("example.com/mod/pkg.A"))
	g.AddTranslationUnit(newRecordTU("example.com/mod/pkg.B"))

	ns, ok := g.NamespaceByFQN("example.com/mod/pkg")
	assert.True(t, ok)
	assert.Len(t, ns.Records, 2)
}

func TestGraphFunctionByFQN(t *testing.T) {
	g := NewGraph()
	fn := &Function{Base: NewBase("Do"), FQN: "example.com/mod/pkg.Do"}
	ns := &Namespace{Base: NewBase("pkg"), FQN: "example.com/mod/pkg", Functions: []*Function{fn}}
	tu := &TranslationUnit{Base: NewBase("a.go"), Namespaces: []*Namespace{ns}}
	g.AddTranslationUnit(tu)

	got, ok := g.FunctionByFQN("example.com/mod/pkg.Do")
	assert.True(t, ok)
	assert.Same(t, fn, got)
}

func TestGraphProblemsAccumulate(t *testing.T) {
	g := NewGraph()
	g.AddProblem(&Problem{Base: NewBase(""), Reason: "parse error"})
	g.AddProblem(&Problem{Base: NewBase(""), Reason: "unresolved import"})

	assert.Len(t, g.Problems, 2)
}
