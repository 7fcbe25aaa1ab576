package resolver

import (
	"regexp"

	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/types"
)

// maxEmbeddingDepth bounds the embedded-field promotion walk so a
// (malformed) cyclic embedding chain cannot loop forever.
const maxEmbeddingDepth = 8

// methodNamePattern matches a member-call name, accepting both a bare
// method name and a "Receiver.Method"-qualified form.
var methodNamePattern = regexp.MustCompile(`(?:^|\.)([A-Za-z_][A-Za-z0-9_]*)$`)

// ResolveEmbeddedMembers is Pass 2: for every member-call `base.m(...)`
// whose static base type is a Record without a directly matching
// method, walk the record's embedded fields (dereferencing pointers)
// for one whose own type has a matching method, and rewrite the call's
// base to `base.embedded` so later passes (and downstream queries) see
// the promoted access explicitly.
func ResolveEmbeddedMembers(ctx *Context) {
	walkGraphExpressions(ctx.Graph, func(e graph.Expression) {
		mc, ok := e.(*graph.MemberCall)
		if !ok {
			return
		}
		resolveEmbeddedMemberCall(ctx, mc)
	})
}

func resolveEmbeddedMemberCall(ctx *Context, mc *graph.MemberCall) {
	methodName := simpleMethodName(mc.GetName())
	visited := make(map[string]bool)
	depth := 0

	base := mc.BaseExpr
	for depth < maxEmbeddingDepth {
		rec, ok := recordForExpr(ctx, base)
		if !ok || visited[rec.FQN] {
			return
		}
		visited[rec.FQN] = true

		if m := matchingMethod(rec, methodName, len(mc.Arguments)); m != nil {
			mc.BaseExpr = base
			mc.Invokes = []*graph.Function{&m.Function}
			return
		}

		embedded := embeddedFieldWithMethod(ctx, rec, methodName, len(mc.Arguments))
		if embedded == nil {
			return
		}

		promoted := &graph.Member{Base: graph.NewBase(embedded.GetName())}
		promoted.BaseExpr = base
		promoted.MemberOf = embedded
		promoted.SetExprType(embedded.Type)
		base = promoted
		depth++
	}
}

func simpleMethodName(name string) string {
	if m := methodNamePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// matchingMethod finds a record method by simple name whose parameter
// count matches argCount. This approximates full signature matching
// with arity, since exact argument types are frequently still Unknown
// at this point in resolution.
func matchingMethod(rec *graph.Record, name string, argCount int) *graph.Method {
	for _, m := range rec.Methods {
		if m.GetName() == name && len(m.Parameters) == argCount {
			return m
		}
	}
	return nil
}

func embeddedFieldWithMethod(ctx *Context, rec *graph.Record, name string, argCount int) *graph.Field {
	for _, f := range rec.EmbeddedFields {
		embeddedRec, ok := recordForType(ctx, f.Type)
		if !ok {
			continue
		}
		if matchingMethod(embeddedRec, name, argCount) != nil {
			return f
		}
	}
	return nil
}

// recordForExpr resolves an expression's static type to a declared
// Record, dereferencing any number of pointer levels.
func recordForExpr(ctx *Context, e graph.Expression) (*graph.Record, bool) {
	if e == nil {
		return nil, false
	}
	return recordForType(ctx, e.ExprType())
}

func recordForType(ctx *Context, t types.Type) (*graph.Record, bool) {
	if t == nil {
		return nil, false
	}
	if ptr, ok := t.(*types.PointerType); ok {
		return recordForType(ctx, ptr.ElementType)
	}
	obj, ok := t.(*types.ObjectType)
	if !ok {
		return nil, false
	}
	return ctx.Graph.RecordByFQN(obj.Name)
}
