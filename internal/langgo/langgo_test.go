package langgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monoid-privacy/cpg/internal/source"
)

const sampleSource = `package sample

// Greet returns a greeting for name.
func Greet(name string) string {
	return "hi " + name
}

var Count int
`

func parseSample(t *testing.T) *source.File {
	t.Helper()
	p := NewParser()
	f, err := p.ParseFile("sample.go", []byte(sampleSource))
	require.NoError(t, err)
	return f
}

func findKind(n source.Node, kind source.NodeKind) (source.Node, bool) {
	if n.Kind() == kind {
		return n, true
	}
	for _, c := range n.Children() {
		if found, ok := findKind(c, kind); ok {
			return found, true
		}
	}
	return nil, false
}

func TestParseFileProducesSourceFile(t *testing.T) {
	f := parseSample(t)
	assert.Equal(t, "sample.go", f.Path)
	assert.Equal(t, source.NodeKind("source_file"), f.Root.Kind())
}

func TestParseFileFindsFunctionDeclaration(t *testing.T) {
	f := parseSample(t)
	fn, ok := findKind(f.Root, "function_declaration")
	require.True(t, ok)

	name, ok := fn.ChildByField("name")
	require.True(t, ok)
	assert.Equal(t, "Greet", name.Text())

	params, ok := fn.ChildByField("parameters")
	require.True(t, ok)
	assert.Contains(t, params.Text(), "name string")
}

func TestCommentMapAttachesPrecedingDocComment(t *testing.T) {
	f := parseSample(t)
	fn, ok := findKind(f.Root, "function_declaration")
	require.True(t, ok)

	cm := NewCommentMap(f.Source)
	comment, ok := cm.CommentFor(fn)
	require.True(t, ok)
	assert.Equal(t, "Greet returns a greeting for name.", comment)
}

func TestCommentMapReportsNoneWhenAbsent(t *testing.T) {
	f := parseSample(t)
	v, ok := findKind(f.Root, "var_declaration")
	require.True(t, ok)

	cm := NewCommentMap(f.Source)
	_, found := cm.CommentFor(v)
	assert.False(t, found)
}

func TestTypeOracleReadsExplicitAnnotation(t *testing.T) {
	f := parseSample(t)
	spec, ok := findKind(f.Root, "var_spec")
	require.True(t, ok)

	oracle := NewTypeOracle()
	expr, ok := oracle.TypeOf(spec)
	require.True(t, ok)
	assert.Equal(t, "int", expr)
}

func TestTypeOracleReportsUnknownWithoutAnnotation(t *testing.T) {
	f := parseSample(t)
	fn, ok := findKind(f.Root, "function_declaration")
	require.True(t, ok)

	oracle := NewTypeOracle()
	_, found := oracle.TypeOf(fn)
	assert.False(t, found)
}
