package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(name string) string { return name }

func TestParseTextBuiltins(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	got := p.ParseText("int")
	require.IsType(t, &ObjectType{}, got)
	assert.Equal(t, "int", got.(*ObjectType).Name)
}

func TestParseTextPointerAndArray(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	ptr := p.ParseText("*MyStruct")
	require.IsType(t, &PointerType{}, ptr)
	pt := ptr.(*PointerType)
	assert.Equal(t, PointerOriginPointer, pt.Origin)
	assert.Equal(t, "MyStruct", pt.ElementType.CanonicalName())

	arr := p.ParseText("[]string")
	require.IsType(t, &PointerType{}, arr)
	at := arr.(*PointerType)
	assert.Equal(t, PointerOriginArray, at.Origin)
	assert.Equal(t, "string", at.ElementType.CanonicalName())
}

func TestParseTextMapAndChan(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	m := p.ParseText("map[string]int")
	require.IsType(t, &ObjectType{}, m)
	mt := m.(*ObjectType)
	assert.Equal(t, "map", mt.Name)
	require.Len(t, mt.Generics, 2)
	assert.Equal(t, "string", mt.Generics[0].CanonicalName())
	assert.Equal(t, "int", mt.Generics[1].CanonicalName())

	c := p.ParseText("chan int")
	ct := c.(*ObjectType)
	assert.Equal(t, "chan", ct.Name)
	assert.Equal(t, "int", ct.Generics[0].CanonicalName())
}

func TestParseTextFunctionCanonicalName(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	single := p.ParseText("func(int) error")
	assert.Equal(t, "func(int) error", single.CanonicalName())

	multi := p.ParseText("func(int, string) (int, error)")
	assert.Equal(t, "func(int,string) (int, error)", multi.CanonicalName())

	none := p.ParseText("func(int)")
	assert.Equal(t, "func(int)", none.CanonicalName())
}

func TestFunctionTypeEqualityIsCanonicalName(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	a := p.ParseText("func(int) error")
	b := p.ParseText("func(int) error")
	assert.Same(t, a, b, "equal FunctionTypes must be interned to one instance")
}

func TestUnresolvableYieldsUnknown(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	got := p.ParseText("func(")
	assert.Equal(t, KindUnknown, got.Kind())
}

func TestQualifierAppliedToBareIdentifiers(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, func(name string) string { return "mod/pkg." + name })

	got := p.ParseText("MyStruct")
	assert.Equal(t, "mod/pkg.MyStruct", got.(*ObjectType).Name)

	// built-ins are never qualified
	got2 := p.ParseText("int")
	assert.Equal(t, "int", got2.(*ObjectType).Name)
}

func TestRenderParseRoundTrip(t *testing.T) {
	exprs := []string{
		"int",
		"*MyStruct",
		"[]string",
		"map[string]int",
		"chan int",
		"func(int, string) error",
		"func(int) (int, error)",
	}
	r := NewRegistry()
	p := NewParser(r, identity)

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			first := p.ParseText(expr)
			rendered := Render(first)
			second := p.ParseText(rendered)
			assert.Equal(t, first.CanonicalName(), second.CanonicalName())
		})
	}
}

func TestRegistryInterningIsIdempotent(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r, identity)

	a := p.ParseText("map[string]int")
	b := p.ParseText("map[string]int")
	assert.Same(t, a, b)
	assert.GreaterOrEqual(t, r.Size(), 1)
}
