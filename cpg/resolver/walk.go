package resolver

import "github.com/monoid-privacy/cpg/cpg/graph"

// exprVisitor is called once per Expression node reached by
// walkFunctionBody or walkExpression, parent-before-child (pre-order), so a pass can both
// inspect and (by returning after mutating fields in place) rewrite a
// node before its children are visited.
type exprVisitor func(e graph.Expression)

// walkGraphExpressions walks every Function and Method body declared
// anywhere in the graph, calling visit for every expression reached.
// This is the shared traversal every whole-program pass builds on.
func walkGraphExpressions(g *graph.Graph, visit exprVisitor) {
	walkGraphExpressionsNS(g, func(_ *graph.Namespace, e graph.Expression) { visit(e) })
}

// walkGraphExpressionsNS is the same traversal, also walking package-level
// variable initializers, with each expression's owning Namespace passed
// to visit alongside it.
func walkGraphExpressionsNS(g *graph.Graph, visit func(ns *graph.Namespace, e graph.Expression)) {
	for _, ns := range allNamespaces(g) {
		wrapped := func(e graph.Expression) { visit(ns, e) }
		for _, fn := range ns.Functions {
			walkFunctionBody(fn, wrapped)
		}
		for _, rec := range ns.Records {
			for _, m := range rec.Methods {
				walkFunctionBody(&m.Function, wrapped)
			}
		}
		for _, v := range ns.Variables {
			if v.Initializer != nil {
				walkExpression(v.Initializer, wrapped)
			}
		}
	}
}

func allNamespaces(g *graph.Graph) []*graph.Namespace {
	var out []*graph.Namespace
	for _, tu := range g.TranslationUnits {
		out = append(out, tu.Namespaces...)
	}
	return out
}

func walkFunctionBody(fn *graph.Function, visit exprVisitor) {
	if fn == nil || fn.Body == nil {
		return
	}
	walkStatement(fn.Body, visit)
}

func walkStatement(s graph.Statement, visit exprVisitor) {
	if s == nil {
		return
	}
	switch st := s.(type) {
	case *graph.Compound:
		for _, c := range st.Statements {
			walkStatement(c, visit)
		}
	case *graph.If:
		walkExpression(st.Condition, visit)
		walkStatement(st.Then, visit)
		walkStatement(st.Else, visit)
	case *graph.For:
		walkStatement(st.Init, visit)
		walkExpression(st.Condition, visit)
		walkStatement(st.Update, visit)
		walkStatement(st.Body, visit)
	case *graph.ForEach:
		walkExpression(st.Iterable, visit)
		walkForEachTarget(st.Key, visit)
		walkForEachTarget(st.Value, visit)
		walkStatement(st.Body, visit)
	case *graph.Switch:
		walkExpression(st.Selector, visit)
		for _, c := range st.Cases {
			walkStatement(c, visit)
		}
	case *graph.Case:
		walkExpression(st.CaseExpr, visit)
		for _, c := range st.Body {
			walkStatement(c, visit)
		}
	case *graph.Default:
		for _, c := range st.Body {
			walkStatement(c, visit)
		}
	case *graph.Return:
		for _, v := range st.Values {
			walkExpression(v, visit)
		}
	case *graph.DeclarationStatement:
		for _, v := range st.Declarations {
			if v.Initializer != nil {
				walkExpression(v.Initializer, visit)
			}
		}
	case *graph.Label:
		walkStatement(st.Target, visit)
	case *graph.ExpressionStatement:
		walkExpression(st.Expr, visit)
	}
}

func walkForEachTarget(n graph.Node, visit exprVisitor) {
	if e, ok := n.(graph.Expression); ok {
		walkExpression(e, visit)
	}
}

// walkExpression visits e and every sub-expression it contains,
// pre-order. A Lambda's nested Function body is walked too, so a
// function literal's statements are reached by the same whole-program
// passes as top-level functions.
func walkExpression(e graph.Expression, visit exprVisitor) {
	if e == nil {
		return
	}
	visit(e)
	switch v := e.(type) {
	case *graph.Member:
		walkExpression(v.BaseExpr, visit)
	case *graph.MemberCall:
		walkExpression(v.BaseExpr, visit)
		for _, a := range v.Arguments {
			walkExpression(a, visit)
		}
	case *graph.Call:
		walkExpression(v.Callee, visit)
		for _, a := range v.Arguments {
			walkExpression(a, visit)
		}
	case *graph.Binary:
		walkExpression(v.LHS, visit)
		walkExpression(v.RHS, visit)
	case *graph.Unary:
		walkExpression(v.Operand, visit)
	case *graph.TypeAssert:
		walkExpression(v.Operand, visit)
	case *graph.Cast:
		walkExpression(v.Operand, visit)
	case *graph.New:
		walkExpression(v.Initializer, visit)
	case *graph.ArrayCreation:
		for _, d := range v.Dimensions {
			walkExpression(d, visit)
		}
	case *graph.Construct:
		for _, a := range v.Arguments {
			walkExpression(a, visit)
		}
	case *graph.InitializerList:
		for _, el := range v.Elements {
			walkExpression(el, visit)
		}
	case *graph.KeyValue:
		walkExpression(v.Key, visit)
		walkExpression(v.Value, visit)
	case *graph.Tuple:
		for _, el := range v.Elements {
			walkExpression(el, visit)
		}
	case *graph.DestructureTuple:
		walkExpression(v.RefersTo, visit)
	case *graph.Lambda:
		walkFunctionBody(v.Function, visit)
	}
}
