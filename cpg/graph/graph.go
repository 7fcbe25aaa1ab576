package graph

// Graph is the top-level construction result: every translation unit
// produced by the frontend, a FQN-indexed lookup over Records for the
// resolver and downstream consumers, and the shared edge index.
type Graph struct {
	TranslationUnits []*TranslationUnit
	Edges            *EdgeIndex

	recordsByFQN   map[string]*Record
	functionsByFQN map[string]*Function
	namespacesByFQN map[string]*Namespace

	// Problems collects every Problem node emitted anywhere in the
	// graph, so a caller can report partial-failure without walking the
	// whole tree.
	Problems []*Problem
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Edges:           NewEdgeIndex(),
		recordsByFQN:    make(map[string]*Record),
		functionsByFQN:  make(map[string]*Function),
		namespacesByFQN: make(map[string]*Namespace),
	}
}

// AddTranslationUnit registers a translation unit and indexes every
// Record, Function, and Namespace declared within it.
//
// A Record FQN already present is merged rather than replacing the
// existing declaration: fields/methods/super-types discovered under the
// new occurrence are appended to the original Record so identity (and
// any edges already pointing at it) survive.
func (g *Graph) AddTranslationUnit(tu *TranslationUnit) {
	g.TranslationUnits = append(g.TranslationUnits, tu)
	for _, ns := range tu.Namespaces {
		g.addNamespace(ns)
	}
}

func (g *Graph) addNamespace(ns *Namespace) {
	if existing, ok := g.namespacesByFQN[ns.FQN]; ok {
		existing.Records = append(existing.Records, ns.Records...)
		existing.Functions = append(existing.Functions, ns.Functions...)
		existing.Variables = append(existing.Variables, ns.Variables...)
		existing.Includes = append(existing.Includes, ns.Includes...)
	} else {
		g.namespacesByFQN[ns.FQN] = ns
	}

	for _, r := range ns.Records {
		g.mergeRecord(r)
	}
	for _, fn := range ns.Functions {
		g.functionsByFQN[fn.FQN] = fn
	}
}

// mergeRecord folds a Record into any existing declaration with the
// same FQN. When a Record with that FQN already exists, the incoming
// declaration's fields/methods/embedded-fields/super-types are folded
// into it in place and the incoming Record is discarded; any edge
// already pointing at the surviving Record keeps working.
func (g *Graph) mergeRecord(r *Record) {
	existing, ok := g.recordsByFQN[r.FQN]
	if !ok {
		g.recordsByFQN[r.FQN] = r
		return
	}
	existing.Fields = append(existing.Fields, r.Fields...)
	existing.Methods = append(existing.Methods, r.Methods...)
	existing.EmbeddedFields = append(existing.EmbeddedFields, r.EmbeddedFields...)
	existing.SuperTypes = append(existing.SuperTypes, r.SuperTypes...)
}

// RecordByFQN looks up a Record by its fully-qualified name.
func (g *Graph) RecordByFQN(fqn string) (*Record, bool) {
	r, ok := g.recordsByFQN[fqn]
	return r, ok
}

// FunctionByFQN looks up a top-level Function by its fully-qualified
// name, including Functions appended to a Namespace after its
// translation unit was registered.
func (g *Graph) FunctionByFQN(fqn string) (*Function, bool) {
	if fn, ok := g.functionsByFQN[fqn]; ok {
		return fn, true
	}
	for _, tu := range g.TranslationUnits {
		for _, ns := range tu.Namespaces {
			for _, fn := range ns.Functions {
				if fn.FQN == fqn {
					return fn, true
				}
			}
		}
	}
	return nil, false
}

// NamespaceByFQN looks up a Namespace (package) by its fully-qualified
// name.
func (g *Graph) NamespaceByFQN(fqn string) (*Namespace, bool) {
	ns, ok := g.namespacesByFQN[fqn]
	return ns, ok
}

// Records returns every Record in the graph, in no particular order.
func (g *Graph) Records() []*Record {
	out := make([]*Record, 0, len(g.recordsByFQN))
	for _, r := range g.recordsByFQN {
		out = append(out, r)
	}
	return out
}

// AddProblem records a construction failure for a subtree.
func (g *Graph) AddProblem(p *Problem) {
	g.Problems = append(g.Problems, p)
}
