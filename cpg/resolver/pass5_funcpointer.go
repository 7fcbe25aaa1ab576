package resolver

import "github.com/monoid-privacy/cpg/cpg/graph"

// buildProducerEdges adds the DFG edges a backward worklist needs to
// reach the functions that flow into a function-pointer-typed call: an
// initializer into its variable, an assignment RHS into the declaration
// its LHS resolves to, and a direct call's argument into the matching
// parameter of its resolved callee. Initializers are linked for every
// package-level variable and for every variable a body refers to.
//
// Pass 3 links only the references it resolves itself to their
// declarations; this pre-step adds the same declaration-to-use edge for
// every reference that is already resolved (including those the
// frontend resolved inline), plus the producer side of the same DFG, so
// the worklist in ResolveFunctionPointerCalls can walk all the way back
// to a Function literal or named function.
func buildProducerEdges(ctx *Context) {
	for _, ns := range ctx.everyNamespace() {
		for _, v := range ns.Variables {
			linkProducer(ctx, v.Initializer, v)
		}
		for _, fn := range ns.Functions {
			walkFunctionBody(fn, func(e graph.Expression) { buildProducerEdgesForExpr(ctx, e) })
		}
		for _, rec := range ns.Records {
			for _, m := range rec.Methods {
				walkFunctionBody(&m.Function, func(e graph.Expression) { buildProducerEdgesForExpr(ctx, e) })
			}
		}
	}
}

func buildProducerEdgesForExpr(ctx *Context, e graph.Expression) {
	switch v := e.(type) {
	case *graph.Binary:
		if v.Operator == "=" {
			if decl := declOf(v.LHS); decl != nil {
				linkProducer(ctx, v.RHS, decl)
			}
		}
	case *graph.Call:
		if fn := calleeFunction(v.Callee); fn != nil {
			n := len(fn.Parameters)
			if len(v.Arguments) < n {
				n = len(v.Arguments)
			}
			for i := 0; i < n; i++ {
				linkProducer(ctx, v.Arguments[i], fn.Parameters[i])
			}
		}
	case *graph.DeclaredReference:
		if v.RefersTo != nil {
			linkDeclarationToUse(ctx, v.RefersTo, v)
			if variable, ok := v.RefersTo.(*graph.Variable); ok {
				linkProducer(ctx, variable.Initializer, variable)
			}
		}
	}
}

func declOf(e graph.Expression) graph.Node {
	ref, ok := e.(*graph.DeclaredReference)
	if !ok {
		return nil
	}
	return ref.RefersTo
}

func calleeFunction(callee graph.Expression) *graph.Function {
	ref, ok := callee.(*graph.DeclaredReference)
	if !ok {
		return nil
	}
	switch fn := ref.RefersTo.(type) {
	case *graph.Function:
		return fn
	case *graph.Method:
		return &fn.Function
	default:
		return nil
	}
}

func linkProducer(ctx *Context, value graph.Expression, to graph.Node) {
	if value == nil || to == nil {
		return
	}
	if value.ID() == to.ID() {
		return
	}
	if !ctx.Graph.Edges.HasEdge(value, to, graph.EdgeDFG) {
		ctx.Graph.Edges.Add(value, to, graph.EdgeDFG)
	}
}

// ResolveFunctionPointerCalls is Pass 5: for every Call whose callee is
// a reference to a function-pointer-typed declaration (not a directly
// named Function/Method), walk the DFG backward from that declaration
// to collect every Function value that may have reached it, and bind
// the call's Invokes set to the result, abandoning the bind if more
// candidates than the configured ambiguity cap are found.
func ResolveFunctionPointerCalls(ctx *Context) {
	buildProducerEdges(ctx)

	walkGraphExpressions(ctx.Graph, func(e graph.Expression) {
		call, ok := e.(*graph.Call)
		if !ok || len(call.Invokes) > 0 {
			return
		}
		decl := refersToFunctionPointerDecl(call.Callee)
		if decl == nil {
			return
		}
		bindFunctionPointerCall(ctx, call, decl)
	})
}

// refersToFunctionPointerDecl returns the declaration a call's callee
// points to, when that declaration is itself a value (variable,
// parameter, or field) rather than a named function or method.
func refersToFunctionPointerDecl(callee graph.Expression) graph.Node {
	ref, ok := callee.(*graph.DeclaredReference)
	if !ok || ref.RefersTo == nil {
		return nil
	}
	switch ref.RefersTo.(type) {
	case *graph.Function, *graph.Method:
		return nil
	}
	return ref.RefersTo
}

func bindFunctionPointerCall(ctx *Context, call *graph.Call, decl graph.Node) {
	var candidates []*graph.Function
	seen := make(map[string]bool)
	exceeded := false

	ctx.Graph.Edges.WalkBackwardDFG(decl, func(n graph.Node) bool {
		if exceeded {
			return false
		}
		if fn, ok := functionValue(n); ok {
			if !seen[fn.ID()] {
				seen[fn.ID()] = true
				candidates = append(candidates, fn)
				if len(candidates) > ctx.AmbiguityCap {
					exceeded = true
					return false
				}
			}
			return false
		}
		return true
	})

	if exceeded || len(candidates) == 0 {
		return
	}

	call.Invokes = candidates
	for _, fn := range candidates {
		n := len(fn.Parameters)
		if len(call.Arguments) < n {
			n = len(call.Arguments)
		}
		for i := 0; i < n; i++ {
			linkProducer(ctx, call.Arguments[i], fn.Parameters[i])
		}
	}
}

// functionValue reports whether n is itself a Function/Method, or a
// Lambda expression wrapping one — the two DFG-reachable node shapes
// that constitute a "function value" reaching a pointer-typed
// declaration.
func functionValue(n graph.Node) (*graph.Function, bool) {
	switch v := n.(type) {
	case *graph.Function:
		return v, true
	case *graph.Method:
		return &v.Function, true
	case *graph.Lambda:
		return v.Function, true
	}
	return nil, false
}
