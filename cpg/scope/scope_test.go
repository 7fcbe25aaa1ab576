package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeValue struct{ name string }

func (f fakeValue) GetName() string { return f.name }

type fakeStructure struct{ name string }

func (f fakeStructure) GetName() string { return f.name }

func TestResolveReferenceWalksOutward(t *testing.T) {
	m := NewManager()
	m.AddDeclaration("pkgVar", fakeValue{"pkgVar"}, true)

	m.EnterScope(KindFunction, "")
	m.EnterScope(KindBlock, "")
	m.AddDeclaration("local", fakeValue{"local"}, false)

	v, ok := m.ResolveReference("local")
	assert.True(t, ok)
	assert.Equal(t, "local", v.GetName())

	v, ok = m.ResolveReference("pkgVar")
	assert.True(t, ok)
	assert.Equal(t, "pkgVar", v.GetName())

	_, ok = m.ResolveReference("nope")
	assert.False(t, ok)
}

func TestInnerDeclarationShadowsOuter(t *testing.T) {
	m := NewManager()
	m.AddDeclaration("x", fakeValue{"outer"}, true)

	m.EnterScope(KindBlock, "")
	m.AddDeclaration("x", fakeValue{"inner"}, false)

	v, ok := m.ResolveReference("x")
	assert.True(t, ok)
	assert.Equal(t, "inner", v.GetName())

	assert.NoError(t, m.LeaveScope())
	v, ok = m.ResolveReference("x")
	assert.True(t, ok)
	assert.Equal(t, "outer", v.GetName())
}

func TestAddDeclarationAppendsRatherThanOverwrites(t *testing.T) {
	m := NewManager()
	m.AddDeclaration("x", fakeValue{"first"}, true)
	m.AddDeclaration("x", fakeValue{"second"}, true)

	v, ok := m.ResolveReference("x")
	assert.True(t, ok)
	assert.Equal(t, "second", v.GetName())

	assert.Len(t, m.global.values["x"], 2)
	assert.Equal(t, "first", m.global.values["x"][0].GetName())
}

func TestLeaveGlobalScopeIsSoftFailure(t *testing.T) {
	m := NewManager()
	err := m.LeaveScope()
	assert.Error(t, err)
	assert.Equal(t, m.global, m.Current())
}

func TestNameScopeReactivatesAcrossFiles(t *testing.T) {
	m := NewManager()
	first := m.EnterScope(KindNameScope, "example.com/mod/pkg")
	m.AddDeclaration("Helper", fakeValue{"Helper"}, false)
	assert.NoError(t, m.LeaveScope())

	m.ResetToGlobal()
	second := m.EnterScope(KindNameScope, "example.com/mod/pkg")

	assert.Same(t, first, second)
	v, ok := m.ResolveReference("Helper")
	assert.True(t, ok)
	assert.Equal(t, "Helper", v.GetName())
}

func TestGetRecordForNameFindsStructureInEnclosingNameScope(t *testing.T) {
	m := NewManager()
	m.EnterScope(KindNameScope, "example.com/mod/pkg")
	m.AddStructure("T", fakeStructure{"T"})

	m.EnterScope(KindFunction, "")
	r, ok := m.GetRecordForName("T")
	assert.True(t, ok)
	assert.Equal(t, "T", r.GetName())
}

func TestResetToGlobalDiscardsStack(t *testing.T) {
	m := NewManager()
	m.EnterScope(KindFunction, "")
	m.EnterScope(KindBlock, "")

	m.ResetToGlobal()
	assert.Equal(t, KindGlobal, m.Current().Kind)
}
