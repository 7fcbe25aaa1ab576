package resolver

import (
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/cpg/types"
)

// ResolveVariablesAndFields is Pass 3: every unresolved DeclaredReference
// is looked up through the scope manager, and every MemberExpression's
// base is resolved to a record so its member can be matched against the
// record's fields (falling back to its super-types, and finally to an
// inferred field when none match).
//
// The frontend already resolves most references inline while walking
// each file (cpg/frontend's lowerIdentifier calls the same scope
// manager during Phase B), since the source language requires local
// variables to be declared before use lexically. What survives to this
// pass is a reference to a package-level function or variable declared
// later in the same file, or in another file of the same package, which
// the per-file walk order cannot see yet. By the time this pass runs
// every file has been walked, so the shared NameScope per package (kept
// alive across files via cpg/scope's byFQN reactivation) holds the
// complete declaration set; this pass only has to re-attempt references
// the frontend left unresolved.
func ResolveVariablesAndFields(ctx *Context) {
	for _, ns := range ctx.everyNamespace() {
		ctx.Scopes.EnterScope(scope.KindNameScope, ns.FQN)
		visit := func(e graph.Expression) { resolveExprPass3(ctx, ns, e) }

		for _, fn := range ns.Functions {
			walkFunctionBody(fn, visit)
		}
		for _, rec := range ns.Records {
			for _, m := range rec.Methods {
				walkFunctionBody(&m.Function, visit)
			}
		}
		for _, v := range ns.Variables {
			if v.Initializer != nil {
				walkExpression(v.Initializer, visit)
			}
		}
		_ = ctx.Scopes.LeaveScope()
	}
	retryDeferredMembers(ctx)
}

func resolveExprPass3(ctx *Context, ns *graph.Namespace, e graph.Expression) {
	switch v := e.(type) {
	case *graph.DeclaredReference:
		resolveDeclaredReference(ctx, ns, v)
	case *graph.Member:
		resolveMember(ctx, v)
	}
}

func resolveDeclaredReference(ctx *Context, ns *graph.Namespace, ref *graph.DeclaredReference) {
	if ref.RefersTo != nil || ref.FQN != "" {
		// Already resolved inline by the frontend, or an import-selector
		// reference that is resolved by FQN rather than scope lookup.
		return
	}

	if decl, ok := ctx.Scopes.ResolveReference(ref.GetName()); ok {
		if n, ok := decl.(graph.Node); ok {
			ref.RefersTo = n
			linkDeclarationToUse(ctx, n, ref)
			return
		}
	}

	// Function-pointer fallback: scope lookup failed, but the
	// reference's static type is itself a function type, so match by
	// signature against every function declared in the enclosing
	// namespace.
	if ref.ExprType() != nil && ref.ExprType().Kind() == types.KindFunction {
		want := ref.ExprType().CanonicalName()
		for _, fn := range ns.Functions {
			if fn.Type != nil && fn.Type.CanonicalName() == want {
				ref.RefersTo = fn
				linkDeclarationToUse(ctx, fn, ref)
				return
			}
		}
	}
	// Otherwise refersTo stays nil: logged by the caller, never fatal.
}

// linkDeclarationToUse adds a declaration-to-use DFG edge. DFG edges may
// themselves form cycles, so HasEdge guards against inserting the same
// edge twice. This is what lets Pass 5's backward worklist walk from a
// read reference back to whatever value was assigned to its
// declaration.
func linkDeclarationToUse(ctx *Context, decl graph.Node, ref *graph.DeclaredReference) {
	if decl.ID() == ref.ID() {
		return
	}
	if !ctx.Graph.Edges.HasEdge(decl, ref, graph.EdgeDFG) {
		ctx.Graph.Edges.Add(decl, ref, graph.EdgeDFG)
	}
}

func resolveMember(ctx *Context, mem *graph.Member) {
	if mem.MemberOf != nil {
		return
	}
	rec, ok := recordForExpr(ctx, mem.BaseExpr)
	if !ok {
		if isUnknownTyped(mem.BaseExpr) {
			key := baseKey(mem.BaseExpr)
			ctx.deferredMembers[key] = append(ctx.deferredMembers[key], mem)
		}
		return
	}
	resolveMemberAgainstRecord(ctx, mem, rec)
}

func resolveMemberAgainstRecord(ctx *Context, mem *graph.Member, rec *graph.Record) {
	if field := findFieldInHierarchy(rec, mem.GetName(), make(map[string]bool)); field != nil {
		mem.MemberOf = field
		mem.SetExprType(field.Type)
		return
	}
	if !ctx.InferMissingDeclarations {
		return
	}
	inferred := &graph.Field{Base: graph.NewBase(mem.GetName()), Type: mem.ExprType()}
	if inferred.Type == nil || inferred.Type.Kind() == types.KindUnknown {
		inferred.Type = ctx.Registry.Unknown()
	}
	rec.Fields = append(rec.Fields, inferred)
	mem.MemberOf = inferred
	ctx.addInferred(inferred)
}

// findFieldInHierarchy looks for a field by simple name on rec, then on
// every record its super-types resolve to.
func findFieldInHierarchy(rec *graph.Record, name string, visited map[string]bool) *graph.Field {
	if rec == nil || visited[rec.FQN] {
		return nil
	}
	visited[rec.FQN] = true
	for _, f := range rec.Fields {
		if f.GetName() == name {
			return f
		}
	}
	for _, super := range rec.SuperTypeDeclarations {
		if f := findFieldInHierarchy(super, name, visited); f != nil {
			return f
		}
	}
	return nil
}

func isUnknownTyped(e graph.Expression) bool {
	return e != nil && e.ExprType() != nil && e.ExprType().Kind() == types.KindUnknown
}

func baseKey(e graph.Expression) string { return e.ID() }

// retryDeferredMembers re-attempts every Member expression whose base
// was Unknown the first time it was reached, exactly once.
func retryDeferredMembers(ctx *Context) {
	pending := ctx.deferredMembers
	ctx.deferredMembers = make(map[string][]*graph.Member)
	for _, members := range pending {
		for _, mem := range members {
			rec, ok := recordForExpr(ctx, mem.BaseExpr)
			if !ok {
				continue // permanently unresolved; never re-queued
			}
			resolveMemberAgainstRecord(ctx, mem, rec)
		}
	}
}
