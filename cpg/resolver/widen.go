package resolver

import (
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/types"
)

// subtyped is implemented by every declaration/expression kind that
// carries a static type and can be widened with possible sub-types.
type subtyped interface {
	AddPossibleSubType(types.Type)
}

// widenInterfaceSubtypes runs immediately after Pass 3: for every typed
// node whose type is an interface Pass 1 found implementers for, union
// those implementers into the node's possibleSubTypes set. This is the
// only point at which structural-implementation information from Pass 1
// reaches individual typed nodes rather than just the implementing
// Record.
func widenInterfaceSubtypes(ctx *Context) {
	if len(ctx.subtypes) == 0 {
		return
	}

	widenType := func(t types.Type, target subtyped) {
		if t == nil || target == nil {
			return
		}
		subs, ok := ctx.subtypes[t.CanonicalName()]
		if !ok {
			return
		}
		for _, st := range subs {
			target.AddPossibleSubType(st)
		}
	}

	walkGraphExpressions(ctx.Graph, func(e graph.Expression) {
		if st, ok := e.(subtyped); ok {
			widenType(e.ExprType(), st)
		}
	})

	for _, ns := range ctx.everyNamespace() {
		for _, v := range ns.Variables {
			widenType(v.Type, v)
		}
		for _, fn := range ns.Functions {
			widenFunctionParams(widenType, fn)
		}
		for _, rec := range ns.Records {
			for _, f := range rec.Fields {
				widenType(f.Type, f)
			}
			for _, m := range rec.Methods {
				widenFunctionParams(widenType, &m.Function)
				if m.Receiver != nil {
					widenType(m.Receiver.Type, m.Receiver)
				}
			}
		}
	}
}

func widenFunctionParams(widenType func(types.Type, subtyped), fn *graph.Function) {
	for _, p := range fn.Parameters {
		widenType(p.Type, p)
	}
}
