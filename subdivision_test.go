package ri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/subdiv"
)

const unitQuadMesh = `SubdivisionMesh "catmull-clark" [4] [0 1 2 3] ["interpolateboundary"] [0 0] [] [] "P" [0 0 0  1 0 0  1 1 0  0 1 0]`

// subdivisionCall digs the tessellated SubdivisionMesh payload out of a
// recorded backend call.
func subdivisionCall(t *testing.T, call backend.Call) (backend.ControlMesh, []subdiv.PrimFace) {
	t.Helper()
	require.Equal(t, "subdivisionMesh", call.Method)
	ctrl, ok := call.Args[0].(backend.ControlMesh)
	require.True(t, ok, "first argument is the control mesh")
	faces, ok := call.Args[1].([]subdiv.PrimFace)
	require.True(t, ok, "second argument is the tessellated face data")
	return ctrl, faces
}

// assertNinePointGrid checks that one PrimFace carries the unit quad's
// depth-1 refinement: nine distinct vertices forming the half-step grid,
// fanned into eight triangles.
func assertNinePointGrid(t *testing.T, f subdiv.PrimFace) {
	t.Helper()
	require.Len(t, f.Positions, 9*3)
	require.Len(t, f.Triangles, 8*3)

	got := map[[3]float64]bool{}
	for i := 0; i < 9; i++ {
		got[[3]float64{
			f.Positions[3*i],
			f.Positions[3*i+1],
			f.Positions[3*i+2],
		}] = true
	}
	require.Len(t, got, 9, "all nine grid vertices are distinct")
	for _, want := range [][3]float64{
		{0, 0, 0}, {0.5, 0, 0}, {1, 0, 0},
		{0, 0.5, 0}, {0.5, 0.5, 0}, {1, 0.5, 0},
		{0, 1, 0}, {0.5, 1, 0}, {1, 1, 0},
	} {
		assert.True(t, got[want], "missing vertex %v", want)
	}
}

// A SubdivisionMesh request is tessellated by the dispatcher before it
// reaches the backend: at the recorder's default (2, 2) display
// tessellation, a single interpolated quad arrives as the nine-point
// triangle grid of one refinement step, not as the raw control mesh.
func TestSubdivisionMeshTessellation(t *testing.T) {
	rec := process(t, "WorldBegin\n"+unitQuadMesh+"\nWorldEnd")
	require.Len(t, rec.Calls, 3)

	ctrl, faces := subdivisionCall(t, rec.Calls[1])
	assert.Equal(t, "catmull-clark", ctrl.Scheme)
	assert.Equal(t, []int{4}, ctrl.NVerts)
	assert.Equal(t, []int{0, 1, 2, 3}, ctrl.VertIdx)

	require.Len(t, faces, 1)
	assertNinePointGrid(t, faces[0])
}

// Replaying a captured SubdivisionMesh re-tessellates at the consuming
// backend's display tessellation, so an instanced surface arrives as
// triangle data too.
func TestSubdivisionMeshReplayDeliversTriangles(t *testing.T) {
	rec := process(t, "ObjectBegin 1\n"+unitQuadMesh+"\nObjectEnd\nWorldBegin\nObjectInstance 1\nWorldEnd")

	var calls []backend.Call
	for _, call := range rec.Calls {
		if call.Method == "subdivisionMesh" {
			calls = append(calls, call)
		}
	}
	require.Len(t, calls, 1, "the surface is emitted once, during replay")
	_, faces := subdivisionCall(t, calls[0])
	require.Len(t, faces, 1)
	assertNinePointGrid(t, faces[0])
}

// An unsupported scheme is rejected before tessellation and never reaches
// the backend.
func TestSubdivisionMeshUnknownScheme(t *testing.T) {
	rec := backend.NewRecorder()
	reporter := &collectReporter{}
	ctx := NewContext(rec, Options{Reporter: reporter})
	require.NoError(t, ctx.Process("loop.rib",
		[]byte(`WorldBegin
SubdivisionMesh "loop" [4] [0 1 2 3] [] [] [] [] "P" [0 0 0  1 0 0  1 1 0  0 1 0]
WorldEnd`)))
	require.NotEmpty(t, reporter.diags)
	for _, call := range rec.Calls {
		assert.NotEqual(t, "subdivisionMesh", call.Method)
	}
}
