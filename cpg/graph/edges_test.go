package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newVar(name string) *Variable {
	v := &Variable{Base: NewBase(name)}
	return v
}

func TestEdgeIndexAddAndQuery(t *testing.T) {
	idx := NewEdgeIndex()
	a := newVar("a")
	b := newVar("b")

	idx.Add(a, b, EdgeDFG)

	assert.True(t, idx.HasEdge(a, b, EdgeDFG))
	assert.False(t, idx.HasEdge(a, b, EdgeAST))
	assert.Len(t, idx.Out(a, EdgeDFG), 1)
	assert.Len(t, idx.In(b, EdgeDFG), 1)
	assert.Len(t, idx.All(), 1)
}

func TestEdgeIndexDistinguishesKinds(t *testing.T) {
	idx := NewEdgeIndex()
	a := newVar("a")
	b := newVar("b")

	idx.Add(a, b, EdgeDFG)
	idx.Add(a, b, EdgeRefersTo)

	assert.Len(t, idx.Out(a, EdgeDFG), 1)
	assert.Len(t, idx.Out(a, EdgeRefersTo), 1)
	assert.Len(t, idx.Out(a, EdgeAST), 0)
}

func TestWalkBackwardDFGToleratesCycles(t *testing.T) {
	idx := NewEdgeIndex()
	a := newVar("a")
	b := newVar("b")
	c := newVar("c")

	// a <- b <- c <- a (a cycle feeding back into a)
	idx.Add(b, a, EdgeDFG)
	idx.Add(c, b, EdgeDFG)
	idx.Add(a, c, EdgeDFG)

	visited := map[string]bool{}
	idx.WalkBackwardDFG(a, func(n Node) bool {
		visited[n.ID()] = true
		return true
	})

	assert.True(t, visited[a.ID()])
	assert.True(t, visited[b.ID()])
	assert.True(t, visited[c.ID()])
	assert.Len(t, visited, 3)
}

func TestWalkBackwardDFGStopsWhenVisitReturnsFalse(t *testing.T) {
	idx := NewEdgeIndex()
	a := newVar("a")
	b := newVar("b")
	c := newVar("c")

	idx.Add(b, a, EdgeDFG)
	idx.Add(c, b, EdgeDFG)

	var visited []string
	idx.WalkBackwardDFG(a, func(n Node) bool {
		visited = append(visited, n.ID())
		return n.ID() != b.ID()
	})

	assert.Contains(t, visited, a.ID())
	assert.Contains(t, visited, b.ID())
	assert.NotContains(t, visited, c.ID())
}
