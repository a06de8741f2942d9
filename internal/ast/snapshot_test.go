package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shisp/internal/ast"
	"shisp/internal/source"
	"shisp/internal/testkit"
)

func TestSnapshotRebuildsSameForest(t *testing.T) {
	g := ast.NewGraph(0)
	drop := g.Add(ast.Comment(";gone"))
	root := g.Add(ast.Node{Kind: ast.NodeExpr, Span: source.Span{Start: 0, End: 1}})
	_, err := g.AddChild(root, ast.Atom("f"))
	require.NoError(t, err)
	_, err = g.AddChild(root, ast.Number(10))
	require.NoError(t, err)
	_, err = g.AddChild(root, ast.Boolean(false))
	require.NoError(t, err)
	g.Add(ast.Str(`"tail"`))
	require.NoError(t, g.Remove(drop))

	snap := g.Snapshot()
	assert.Len(t, snap.Nodes, 5)
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {0, 3}}, snap.Edges)
	assert.Equal(t, []int{0, 4}, snap.Roots)
	assert.Equal(t, "10", snap.Nodes[2].Value)

	back, err := ast.FromSnapshot(snap, source.FileID(3))
	require.NoError(t, err)
	require.NoError(t, testkit.CheckForest(back))
	assert.Equal(t, snap, back.Snapshot())

	n, ok := back.NodeAt(0)
	require.True(t, ok)
	assert.Equal(t, source.FileID(3), n.Span.File)
}

func TestFromSnapshotRejectsBadInput(t *testing.T) {
	_, err := ast.FromSnapshot(ast.Snapshot{Nodes: []ast.SnapshotNode{{Kind: "Vector"}}}, 0)
	assert.Error(t, err)

	_, err = ast.FromSnapshot(ast.Snapshot{
		Nodes: []ast.SnapshotNode{{Kind: "Expr"}},
		Edges: [][2]int{{0, 5}},
	}, 0)
	assert.ErrorIs(t, err, ast.ErrNodeNotFound)

	_, err = ast.FromSnapshot(ast.Snapshot{
		Nodes: []ast.SnapshotNode{{Kind: "Expr"}, {Kind: "Expr"}},
		Edges: [][2]int{{0, 1}, {1, 0}},
	}, 0)
	assert.ErrorIs(t, err, ast.ErrCycle)
}
