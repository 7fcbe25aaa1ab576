package resolver

import (
	"testing"

	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/cpg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*Context, *graph.Graph) {
	g := graph.NewGraph()
	reg := types.NewRegistry()
	mgr := scope.NewManager()
	return NewContext(g, mgr, reg), g
}

func funcType(reg *types.Registry, params []types.Type, rets []types.Type) *types.FunctionType {
	ft := &types.FunctionType{Parameters: params, ReturnTypes: rets}
	return reg.Intern(ft).(*types.FunctionType)
}

func TestPipelineOrdersPassesByDependency(t *testing.T) {
	p, err := NewPipeline(3, true)
	require.NoError(t, err)

	names := p.Names()
	require.Len(t, names, 5)
	assert.Equal(t, "ResolveInterfaceImplementations", names[0])
	assert.Equal(t, "ResolveEmbeddedMembers", names[1])
	assert.Equal(t, "ResolveVariablesAndFields", names[2])
	assert.Equal(t, "InitializerListDFG", names[3])
	assert.Equal(t, "FunctionPointerCalls", names[4])
}

func TestPass1ResolvesStructuralInterfaceImplementation(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	sig := funcType(reg, nil, []types.Type{reg.Intern(&types.ObjectType{Name: "string"})})
	iface := &graph.Record{
		Base: graph.NewBase("Stringer"), FQN: "example.com/mod/pkg.Stringer", Kind: graph.RecordInterface,
		RequiredMethods: map[string]*types.FunctionType{"String": sig},
	}
	method := &graph.Method{Function: graph.Function{Base: graph.NewBase("String"), Type: sig}}
	rec := &graph.Record{
		Base: graph.NewBase("Widget"), FQN: "example.com/mod/pkg.Widget", Kind: graph.RecordStruct,
		Methods: []*graph.Method{method},
	}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "example.com/mod/pkg", Records: []*graph.Record{iface, rec}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ResolveInterfaceImplementations(ctx)

	require.Len(t, rec.ImplementedInterfaces, 1)
	assert.Equal(t, "example.com/mod/pkg.Stringer", rec.ImplementedInterfaces[0].CanonicalName())
}

func TestPass1DoesNotMatchPartialImplementations(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	sigA := funcType(reg, nil, nil)
	sigB := funcType(reg, []types.Type{reg.Intern(&types.ObjectType{Name: "int"})}, nil)
	iface := &graph.Record{
		Base: graph.NewBase("Both"), FQN: "pkg.Both", Kind: graph.RecordInterface,
		RequiredMethods: map[string]*types.FunctionType{"A": sigA, "B": sigB},
	}
	onlyA := &graph.Method{Function: graph.Function{Base: graph.NewBase("A"), Type: sigA}}
	rec := &graph.Record{Base: graph.NewBase("Partial"), FQN: "pkg.Partial", Kind: graph.RecordStruct, Methods: []*graph.Method{onlyA}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Records: []*graph.Record{iface, rec}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ResolveInterfaceImplementations(ctx)

	assert.Empty(t, rec.ImplementedInterfaces)
}

func TestPass2PromotesEmbeddedMethod(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	base := &graph.Method{Function: graph.Function{Base: graph.NewBase("Log"), Type: funcType(reg, nil, nil)}}
	baseRec := &graph.Record{Base: graph.NewBase("Base"), FQN: "pkg.Base", Kind: graph.RecordStruct, Methods: []*graph.Method{base}}
	embeddedField := &graph.Field{Base: graph.NewBase("Base"), Embedded: true, Type: reg.Intern(&types.ObjectType{Name: "pkg.Base"})}
	outer := &graph.Record{Base: graph.NewBase("Outer"), FQN: "pkg.Outer", Kind: graph.RecordStruct, EmbeddedFields: []*graph.Field{embeddedField}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Records: []*graph.Record{baseRec, outer}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	recv := &graph.DeclaredReference{Base: graph.NewBase("o")}
	recv.SetExprType(reg.Intern(&types.ObjectType{Name: "pkg.Outer"}))
	call := &graph.MemberCall{Base: graph.NewBase("Log"), BaseExpr: recv}

	fn := &graph.Function{Base: graph.NewBase("run"), Body: &graph.Compound{
		Statements: []graph.Statement{wrapStmt(call)},
	}}
	ns.Functions = append(ns.Functions, fn)

	ResolveEmbeddedMembers(ctx)

	require.Len(t, call.Invokes, 1)
	assert.Same(t, &base.Function, call.Invokes[0])
	member, ok := call.BaseExpr.(*graph.Member)
	require.True(t, ok)
	assert.Same(t, embeddedField, member.MemberOf)
}

func wrapStmt(e graph.Expression) graph.Statement {
	return &graph.ExpressionStatement{Base: graph.NewBase(""), Expr: e}
}

func TestPass3ResolvesForwardReferenceAcrossFiles(t *testing.T) {
	ctx, g := newTestContext()

	helper := &graph.Function{Base: graph.NewBase("Helper"), FQN: "pkg.Helper"}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg"}

	ref := &graph.DeclaredReference{Base: graph.NewBase("Helper")}
	caller := &graph.Function{Base: graph.NewBase("Caller"), Body: &graph.Compound{
		Statements: []graph.Statement{wrapStmt(ref)},
	}}
	ns.Functions = []*graph.Function{caller, helper}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ctx.Scopes.EnterScope(scope.KindNameScope, "pkg")
	ctx.Scopes.AddDeclaration("Helper", helper, false)
	require.NoError(t, ctx.Scopes.LeaveScope())
	ctx.Scopes.ResetToGlobal()

	ResolveVariablesAndFields(ctx)

	require.NotNil(t, ref.RefersTo)
	assert.Same(t, helper, ref.RefersTo)
	assert.True(t, g.Edges.HasEdge(helper, ref, graph.EdgeDFG))
}

func TestPass3InfersMissingFieldWhenConfigured(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry
	ctx.InferMissingDeclarations = true

	rec := &graph.Record{Base: graph.NewBase("T"), FQN: "pkg.T", Kind: graph.RecordStruct}
	base := &graph.DeclaredReference{Base: graph.NewBase("t")}
	base.SetExprType(reg.Intern(&types.ObjectType{Name: "pkg.T"}))
	mem := &graph.Member{Base: graph.NewBase("Missing"), BaseExpr: base}

	fn := &graph.Function{Base: graph.NewBase("f"), Body: &graph.Compound{Statements: []graph.Statement{wrapStmt(mem)}}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Records: []*graph.Record{rec}, Functions: []*graph.Function{fn}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ResolveVariablesAndFields(ctx)

	require.NotNil(t, mem.MemberOf)
	assert.Len(t, rec.Fields, 1)
	assert.Len(t, ctx.Inferred, 1)
}

func TestPass3DeferredMemberResolvesOnceBaseNarrows(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	field := &graph.Field{Base: graph.NewBase("Name"), Type: reg.Intern(&types.ObjectType{Name: "string"})}
	rec := &graph.Record{Base: graph.NewBase("T"), FQN: "pkg.T", Kind: graph.RecordStruct, Fields: []*graph.Field{field}}

	unresolvedRef := &graph.DeclaredReference{Base: graph.NewBase("t")}
	unresolvedRef.SetExprType(reg.Unknown())
	mem := &graph.Member{Base: graph.NewBase("Name"), BaseExpr: unresolvedRef}

	fn := &graph.Function{Base: graph.NewBase("f"), Body: &graph.Compound{Statements: []graph.Statement{wrapStmt(mem)}}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Records: []*graph.Record{rec}, Functions: []*graph.Function{fn}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	// Narrow the base's type only after the first pass would have deferred it.
	unresolvedRef.SetExprType(reg.Intern(&types.ObjectType{Name: "pkg.T"}))
	ctx.deferredMembers[baseKey(unresolvedRef)] = []*graph.Member{mem}

	retryDeferredMembers(ctx)

	assert.Same(t, field, mem.MemberOf)
}

func TestPass4LinksInitializerListElementsToFields(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	nameField := &graph.Field{Base: graph.NewBase("Name"), Type: reg.Intern(&types.ObjectType{Name: "string"})}
	rec := &graph.Record{Base: graph.NewBase("T"), FQN: "pkg.T", Kind: graph.RecordStruct, Fields: []*graph.Field{nameField}}

	value := &graph.Literal{Base: graph.NewBase(""), Value: "hi"}
	kv := &graph.KeyValue{Base: graph.NewBase(""), Key: &graph.Literal{Base: graph.NewBase(""), Value: "Name"}, Value: value}
	il := &graph.InitializerList{Base: graph.NewBase(""), Elements: []graph.Expression{kv}}
	construct := &graph.Construct{Base: graph.NewBase(""), Arguments: []graph.Expression{il}}
	construct.SetExprType(reg.Intern(&types.ObjectType{Name: "pkg.T"}))

	fn := &graph.Function{Base: graph.NewBase("f"), Body: &graph.Compound{Statements: []graph.Statement{wrapStmt(construct)}}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Records: []*graph.Record{rec}, Functions: []*graph.Function{fn}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ResolveInitializerListDFG(ctx)

	assert.True(t, g.Edges.HasEdge(value, nameField, graph.EdgeDFG))
}

func TestPass5BindsFunctionPointerCallThroughAssignment(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	target := &graph.Function{Base: graph.NewBase("Target"), FQN: "pkg.Target"}
	handlerType := reg.Intern(&types.FunctionType{})

	handlerVar := &graph.Variable{Base: graph.NewBase("handler"), Type: handlerType}

	targetRef := &graph.DeclaredReference{Base: graph.NewBase("Target")}
	targetRef.RefersTo = target

	handlerLHSRef := &graph.DeclaredReference{Base: graph.NewBase("handler")}
	handlerLHSRef.RefersTo = handlerVar
	assign := &graph.Binary{Base: graph.NewBase(""), Operator: "=", LHS: handlerLHSRef, RHS: targetRef}

	callRef := &graph.DeclaredReference{Base: graph.NewBase("handler")}
	callRef.RefersTo = handlerVar
	call := &graph.Call{Base: graph.NewBase(""), Callee: callRef}

	fn := &graph.Function{Base: graph.NewBase("f"), Body: &graph.Compound{
		Statements: []graph.Statement{wrapStmt(assign), wrapStmt(call)},
	}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Functions: []*graph.Function{fn, target}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ResolveFunctionPointerCalls(ctx)

	require.Len(t, call.Invokes, 1)
	assert.Same(t, target, call.Invokes[0])
}

func TestPass5AbandonsBindingPastAmbiguityCap(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry
	ctx.AmbiguityCap = 1

	handlerType := reg.Intern(&types.FunctionType{})
	handlerVar := &graph.Variable{Base: graph.NewBase("handler"), Type: handlerType}

	fnA := &graph.Function{Base: graph.NewBase("A"), FQN: "pkg.A"}
	fnB := &graph.Function{Base: graph.NewBase("B"), FQN: "pkg.B"}

	refA := &graph.DeclaredReference{Base: graph.NewBase("A")}
	refA.RefersTo = fnA
	lhsA := &graph.DeclaredReference{Base: graph.NewBase("handler")}
	lhsA.RefersTo = handlerVar
	assignA := &graph.Binary{Base: graph.NewBase(""), Operator: "=", LHS: lhsA, RHS: refA}

	refB := &graph.DeclaredReference{Base: graph.NewBase("B")}
	refB.RefersTo = fnB
	lhsB := &graph.DeclaredReference{Base: graph.NewBase("handler")}
	lhsB.RefersTo = handlerVar
	assignB := &graph.Binary{Base: graph.NewBase(""), Operator: "=", LHS: lhsB, RHS: refB}

	callRef := &graph.DeclaredReference{Base: graph.NewBase("handler")}
	callRef.RefersTo = handlerVar
	call := &graph.Call{Base: graph.NewBase(""), Callee: callRef}

	fn := &graph.Function{Base: graph.NewBase("f"), Body: &graph.Compound{
		Statements: []graph.Statement{wrapStmt(assignA), wrapStmt(assignB), wrapStmt(call)},
	}}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Functions: []*graph.Function{fn, fnA, fnB}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	ResolveFunctionPointerCalls(ctx)

	assert.Empty(t, call.Invokes)
}

func TestWidenInterfaceSubtypesUnionsImplementers(t *testing.T) {
	ctx, g := newTestContext()
	reg := ctx.Registry

	ifaceType := reg.Intern(&types.ObjectType{Name: "pkg.Stringer"})
	structType := reg.Intern(&types.ObjectType{Name: "pkg.Widget"})
	ctx.subtypes[ifaceType.CanonicalName()] = []types.Type{structType}

	v := &graph.Variable{Base: graph.NewBase("s"), Type: ifaceType}
	ns := &graph.Namespace{Base: graph.NewBase("pkg"), FQN: "pkg", Variables: []*graph.Variable{v}}
	g.AddTranslationUnit(&graph.TranslationUnit{Base: graph.NewBase("a.go"), Namespaces: []*graph.Namespace{ns}})

	widenInterfaceSubtypes(ctx)

	require.Len(t, v.PossibleSubTypes, 1)
	assert.Equal(t, "pkg.Widget", v.PossibleSubTypes[0].CanonicalName())
}
