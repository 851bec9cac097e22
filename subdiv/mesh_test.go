package subdiv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// unitQuad builds the single-quad control mesh used throughout these tests:
// the unit square in the z = 0 plane.
func unitQuad(t *testing.T, tags []string, nargs, intArgs []int, floatArgs []float64) *Mesh {
	t.Helper()
	m, err := BuildMesh([]int{4}, []int{0, 1, 2, 3}, tags, nargs, intArgs, floatArgs, nil)
	require.NoError(t, err)
	require.NoError(t, m.AddVertexChannel("P", 3, []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}))
	return m
}

func TestBuildSingleQuadTopology(t *testing.T) {
	m := unitQuad(t, nil, nil, nil, nil)
	require.NoError(t, m.Validate())

	assert.Len(t, m.Verts, 4)
	assert.Len(t, m.Edges, 4)
	assert.Len(t, m.Facets, 1)
	for _, e := range m.Edges {
		assert.True(t, e.Boundary(), "every edge of a lone quad is a boundary edge")
	}
	for v := range m.Verts {
		assert.Equal(t, 2, m.Verts[v].EdgeCount)
		assert.Equal(t, 1, m.Verts[v].FaceCount)
	}
	// Without interpolateboundary the lone facet touches the boundary and
	// is marked for omission.
	assert.True(t, m.Facets[0].Boundary)
}

func TestBuildEdgeDeduplication(t *testing.T) {
	// Two quads sharing edge (1, 4).
	m, err := BuildMesh([]int{4, 4}, []int{0, 1, 4, 3, 1, 2, 5, 4}, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Len(t, m.Edges, 7)
	e, ok := m.findEdge(1, 4)
	require.True(t, ok)
	assert.False(t, m.Edges[e].Boundary())
	assert.Equal(t, 0, m.Edges[e].F1)
	assert.Equal(t, 1, m.Edges[e].F2)
}

func TestRefineSingleQuad(t *testing.T) {
	m := unitQuad(t, nil, nil, nil, nil)
	child := m.Refine()
	require.NoError(t, child.Validate())

	assert.Len(t, child.Facets, 4)
	for f := range child.Facets {
		assert.Equal(t, 4, child.Facets[f].VertCount, "every facet is a quad after the first step")
		assert.Equal(t, 0, child.Facets[f].OrigFace)
	}
	// The face point lands at the centroid of the input quad.
	center := child.Position(len(m.Verts) + len(m.Edges))
	assert.Equal(t, vec3{0.5, 0.5, 0}, center)
}

func TestSharpnessBlend(t *testing.T) {
	assert.Equal(t, 0.0, SharpnessBlend(0))
	assert.Equal(t, 0.5, SharpnessBlend(1))
	assert.Equal(t, 1.0, SharpnessBlend(math.Inf(1)))
	assert.Equal(t, 0.0, SharpnessBlend(-2))
}

func TestInterpolateBoundaryTags(t *testing.T) {
	m := unitQuad(t, []string{"interpolateboundary"}, []int{0, 0}, nil, nil)
	for _, e := range m.Edges {
		assert.Equal(t, 1.0, e.Blend)
	}
	for _, v := range m.Verts {
		assert.Equal(t, VertexCorner, v.Type)
		assert.Equal(t, 1.0, v.Blend)
	}
	assert.False(t, m.Facets[0].Boundary)
}

func TestHoleTag(t *testing.T) {
	m, err := BuildMesh([]int{4, 4}, []int{0, 1, 4, 3, 1, 2, 5, 4},
		[]string{"hole"}, []int{1, 0}, []int{1}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, FacetFilled, m.Facets[0].Type)
	assert.Equal(t, FacetHole, m.Facets[1].Type)

	child := m.Refine()
	for _, f := range child.Facets {
		want := FacetFilled
		if f.OrigFace == 1 {
			want = FacetHole
		}
		assert.Equal(t, want, f.Type)
	}
}

func TestTagArgumentRepeatLast(t *testing.T) {
	var warnings []string
	warn := func(msg string) { warnings = append(warnings, msg) }

	m, err := BuildMesh([]int{4}, []int{0, 1, 2, 3},
		[]string{"corner"}, []int{3, 2}, []int{0, 1, 2}, []float64{math.Inf(1), 1}, warn)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1.0, m.Verts[0].Blend)
	assert.Equal(t, 0.5, m.Verts[1].Blend)
	assert.Equal(t, 0.5, m.Verts[2].Blend, "last sharpness repeats for the unmatched corner")
}

func TestInfiniteCreaseIsPreserved(t *testing.T) {
	// A tent: two quads sharing the raised ridge edge (1, 4).
	m, err := BuildMesh([]int{4, 4}, []int{0, 1, 4, 3, 1, 2, 5, 4},
		[]string{"crease", "interpolateboundary"},
		[]int{2, 1, 0, 0}, []int{1, 4}, []float64{math.Inf(1)}, nil)
	require.NoError(t, err)
	require.NoError(t, m.AddVertexChannel("P", 3, []float64{
		0, 0, 0,
		1, 0, 1,
		2, 0, 0,
		0, 1, 0,
		1, 1, 1,
		2, 1, 0,
	}))

	tess := NewTessellator(m)
	for depth := 1; depth <= 3; depth++ {
		level := tess.Level(depth)
		require.NoError(t, level.Validate())
		// Every vertex on the ridge line x == 1 must stay at z == 1: the
		// fully sharp crease subdivides as a linear average of its
		// endpoints and never sags toward the smooth surface.
		ridge := 0
		pos := level.Channel("P")
		for v := 0; v < len(level.Verts); v++ {
			x, z := pos.Data[3*v], pos.Data[3*v+2]
			if math.Abs(x-1) < 1e-12 {
				ridge++
				assert.InDelta(t, 1.0, z, 1e-12, "depth %d vertex %d", depth, v)
			}
		}
		assert.Equal(t, (1<<depth)+1, ridge, "ridge polyline vertex count at depth %d", depth)
	}
}

func TestBoundaryPolylineIsPiecewiseLinear(t *testing.T) {
	m := unitQuad(t, []string{"interpolateboundary"}, []int{0, 0}, nil, nil)
	child := m.Refine()

	// The bottom boundary refines to exactly the piecewise-linear points
	// (0,0,0), (0.5,0,0), (1,0,0).
	pos := child.Channel("P")
	var bottom []float64
	for v := 0; v < len(child.Verts); v++ {
		if pos.Data[3*v+1] == 0 && pos.Data[3*v+2] == 0 {
			bottom = append(bottom, pos.Data[3*v])
		}
	}
	require.Len(t, bottom, 3)
	assert.ElementsMatch(t, []float64{0, 0.5, 1}, bottom)
}

func TestVaryingChannelRefinesLinearly(t *testing.T) {
	m := unitQuad(t, []string{"interpolateboundary"}, []int{0, 0}, nil, nil)
	require.NoError(t, m.AddVaryingChannel("temperature", 1, []float64{0, 1, 2, 3}))

	child := m.Refine()
	ch := child.VaryingChannel("temperature")
	require.NotNil(t, ch)

	// Old vertices copy; edge midpoints average; the face point is the
	// centroid of the four corners.
	assert.True(t, floats.EqualApprox([]float64{0, 1, 2, 3}, ch.Data[:4], 1e-12))
	assert.InDelta(t, 1.5, ch.Data[len(child.Verts)-1], 1e-12)
}

func TestValidateCatchesBrokenEdges(t *testing.T) {
	m := unitQuad(t, nil, nil, nil, nil)
	m.Edges[0].V1, m.Edges[0].V2 = m.Edges[0].V2, m.Edges[0].V1
	assert.Error(t, m.Validate())
}
