package graph

// EdgeKind distinguishes the explicit edge kinds the model carries.
// AST edges never cycle; DFG and refers-to may.
type EdgeKind int

const (
	EdgeAST EdgeKind = iota
	EdgeDFG
	EdgeRefersTo
	EdgeImplements
	EdgeSuperClasses
)

// Edge is a directed, typed connection between two nodes.
type Edge struct {
	From Node
	To   Node
	Kind EdgeKind
}

// EdgeIndex stores edges and answers adjacency queries. It is the
// language-agnostic edge store shared by the frontend and resolver,
// indexing edges by both endpoint for fast forward and backward
// adjacency lookups.
type EdgeIndex struct {
	out map[string][]*Edge // node ID -> outgoing edges
	in  map[string][]*Edge // node ID -> incoming edges
	all []*Edge
}

// NewEdgeIndex creates an empty edge index.
func NewEdgeIndex() *EdgeIndex {
	return &EdgeIndex{
		out: make(map[string][]*Edge),
		in:  make(map[string][]*Edge),
	}
}

// Add records an edge. Duplicate (From,To,Kind) triples are not
// deduplicated here — callers that must be idempotent check first via
// HasEdge.
func (idx *EdgeIndex) Add(from, to Node, kind EdgeKind) *Edge {
	e := &Edge{From: from, To: to, Kind: kind}
	idx.out[from.ID()] = append(idx.out[from.ID()], e)
	idx.in[to.ID()] = append(idx.in[to.ID()], e)
	idx.all = append(idx.all, e)
	return e
}

// HasEdge reports whether an edge of the given kind from `from` to `to`
// already exists, so resolver passes can avoid inserting duplicates.
func (idx *EdgeIndex) HasEdge(from, to Node, kind EdgeKind) bool {
	for _, e := range idx.out[from.ID()] {
		if e.Kind == kind && e.To.ID() == to.ID() {
			return true
		}
	}
	return false
}

// Out returns the outgoing edges of kind from a node.
func (idx *EdgeIndex) Out(n Node, kind EdgeKind) []*Edge {
	var result []*Edge
	for _, e := range idx.out[n.ID()] {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// In returns the incoming edges of kind into a node.
func (idx *EdgeIndex) In(n Node, kind EdgeKind) []*Edge {
	var result []*Edge
	for _, e := range idx.in[n.ID()] {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// All returns every edge in the index, in insertion order.
func (idx *EdgeIndex) All() []*Edge { return idx.all }

// WalkBackwardDFG performs a cycle-tolerant backward traversal along DFG
// edges starting from start, calling visit for every node reached exactly
// once, using a visited set keyed by node identity to bound iteration on
// cyclic graphs. It stops descending from a node when visit returns
// false. The function-pointer worklist (resolver Pass 5) builds on it.
func (idx *EdgeIndex) WalkBackwardDFG(start Node, visit func(Node) bool) {
	visited := make(map[string]bool)
	queue := []Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n.ID()] {
			continue
		}
		visited[n.ID()] = true
		if !visit(n) {
			continue
		}
		for _, e := range idx.In(n, EdgeDFG) {
			if !visited[e.From.ID()] {
				queue = append(queue, e.From)
			}
		}
	}
}
