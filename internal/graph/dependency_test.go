package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/csplice/internal/extract"
)

// Test Plan for DependencyGraph and Build:
// - Build chains adjacent elements and nothing else
// - Build on zero or one element produces no edges
// - Node set equals the extracted elements
// - Self-loops are rejected
// - Edges to unknown nodes are rejected
// - Duplicate identities are rejected
// - Duplicate edges are ignored
// - Edges are directional only

func elementsAt(lines ...int) []extract.CodeElement {
	out := make([]extract.CodeElement, 0, len(lines))
	for _, idx := range lines {
		out = append(out, extract.CodeElement{
			ID:         extract.ElementID(idx),
			OriginLine: idx,
			RawText:    "int fn() {",
		})
	}
	return out
}

func TestBuild_LinearChain(t *testing.T) {
	t.Parallel()

	elements := elementsAt(0, 3, 7)
	g, err := Build(elements)
	require.NoError(t, err)

	assert.Equal(t, elements, g.Nodes())
	assert.Equal(t, []Edge{
		{From: "Function_0", To: "Function_3"},
		{From: "Function_3", To: "Function_7"},
	}, g.Edges())
}

func TestBuild_SmallInputs(t *testing.T) {
	t.Parallel()

	empty, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Edges())

	single, err := Build(elementsAt(4))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())
	assert.Empty(t, single.Edges())
}

func TestAddEdge_Rejections(t *testing.T) {
	t.Parallel()

	g, err := Build(elementsAt(0, 1))
	require.NoError(t, err)

	err = g.AddEdge("Function_0", "Function_0")
	assert.True(t, errors.Is(err, ErrSelfLoop))

	err = g.AddEdge("Function_0", "Function_9")
	assert.True(t, errors.Is(err, ErrUnknownNode))

	assert.NoError(t, g.AddEdge("Function_0", "Function_1"))
	assert.Len(t, g.Edges(), 1)
}

func TestAddNode_Duplicate(t *testing.T) {
	t.Parallel()

	g := New()
	require.NoError(t, g.AddNode(elementsAt(2)[0]))
	err := g.AddNode(elementsAt(2)[0])
	assert.True(t, errors.Is(err, ErrDuplicateNode))
}

func TestEdges_Directional(t *testing.T) {
	t.Parallel()

	g, err := Build(elementsAt(0, 1))
	require.NoError(t, err)

	require.NoError(t, g.AddEdge("Function_1", "Function_0"))
	assert.Equal(t, []Edge{
		{From: "Function_0", To: "Function_1"},
		{From: "Function_1", To: "Function_0"},
	}, g.Edges())

	node, ok := g.Node("Function_1")
	require.True(t, ok)
	assert.Equal(t, 1, node.OriginLine)

	_, ok = g.Node("Function_5")
	assert.False(t, ok)
}
