package resolver

import (
	"github.com/monoid-privacy/cpg/cpg/graph"
	"github.com/monoid-privacy/cpg/cpg/scope"
	"github.com/monoid-privacy/cpg/cpg/types"
)

// Context is the shared, mutable state every pass reads and writes. One
// Context is created per project run and threaded through the whole
// Pipeline; it is not safe for concurrent use.
type Context struct {
	Graph    *graph.Graph
	Scopes   *scope.Manager
	Registry *types.Registry

	// InferMissingDeclarations gates Pass 3's inferred-FieldDeclaration
	// synthesis: when set, a field that's still unresolved gets a
	// synthesized FieldDeclaration instead of being left unresolved.
	InferMissingDeclarations bool

	// AmbiguityCap bounds Pass 5's candidate-set size: a function-pointer
	// call is left unbound once more than this many candidate functions
	// reach it.
	AmbiguityCap int

	// Inferred collects every declaration synthesized by the resolver
	// (records, fields, functions), exposed to callers as a flat list of
	// inferred declarations.
	Inferred []graph.Node

	// subtypes indexes, per interface Type's canonical name, the
	// concrete struct Types discovered by Pass 1 to implement it.
	// Consumed by the post-Pass-3 interface-subtyping widening step.
	subtypes map[string][]types.Type

	// deferredMembers holds Member expressions whose base type was
	// Unknown the first time Pass 3 tried to resolve them, keyed by the
	// base expression's identity, so a later narrowing of that base's
	// type can re-trigger resolution exactly once per base.
	deferredMembers map[string][]*graph.Member
}

// NewContext creates a Context for one project run.
func NewContext(g *graph.Graph, scopes *scope.Manager, registry *types.Registry) *Context {
	return &Context{
		Graph:                     g,
		Scopes:                    scopes,
		Registry:                  registry,
		InferMissingDeclarations:  true,
		AmbiguityCap:              3,
		subtypes:                  make(map[string][]types.Type),
		deferredMembers:           make(map[string][]*graph.Member),
	}
}

// addInferred records a resolver-synthesized declaration.
func (c *Context) addInferred(n graph.Node) {
	c.Inferred = append(c.Inferred, n)
}

// everyRecord returns every Record in the graph, for passes that must
// walk all declared types (Pass 1, Pass 2).
func (c *Context) everyRecord() []*graph.Record {
	return c.Graph.Records()
}

// everyNamespace returns every Namespace of every translation unit, for
// passes that must visit every statement/expression tree in the program
// through the Functions and Methods declared there.
func (c *Context) everyNamespace() []*graph.Namespace {
	var out []*graph.Namespace
	for _, tu := range c.Graph.TranslationUnits {
		out = append(out, tu.Namespaces...)
	}
	return out
}
