package resolver

import "github.com/monoid-privacy/cpg/cpg/graph"

// ResolveInitializerListDFG is Pass 4: for every composite-literal
// Construct whose type resolves to a known record, add a DFG edge from
// each KeyValue element's value expression to the matching field's
// definition, when the key is a string literal naming that field.
func ResolveInitializerListDFG(ctx *Context) {
	walkGraphExpressions(ctx.Graph, func(e graph.Expression) {
		construct, ok := e.(*graph.Construct)
		if !ok || len(construct.Arguments) != 1 {
			return
		}
		il, ok := construct.Arguments[0].(*graph.InitializerList)
		if !ok {
			return
		}
		rec, ok := recordForExpr(ctx, construct)
		if !ok {
			return
		}
		for _, el := range il.Elements {
			kv, ok := el.(*graph.KeyValue)
			if !ok {
				continue
			}
			addInitializerFieldDFG(ctx, rec, kv)
		}
	})
}

func addInitializerFieldDFG(ctx *Context, rec *graph.Record, kv *graph.KeyValue) {
	lit, ok := kv.Key.(*graph.Literal)
	if !ok {
		return
	}
	keyName, ok := lit.Value.(string)
	if !ok || keyName == "" {
		return
	}
	field := findFieldInHierarchy(rec, keyName, make(map[string]bool))
	if field == nil || kv.Value == nil {
		return
	}
	if !ctx.Graph.Edges.HasEdge(kv.Value, field, graph.EdgeDFG) {
		ctx.Graph.Edges.Add(kv.Value, field, graph.EdgeDFG)
	}
}
