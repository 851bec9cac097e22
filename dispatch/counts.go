package dispatch

import "github.com/rmanicore/ri/param"

// singleVertexCounts is the fixed per-request Counts record for quadric
// surfaces (Sphere, Cone, ...): one facet, four corners/vertices.
// colorSamples preserves whatever ColorSamples last set for the process.
func singleVertexCounts(colorSamples int) param.Counts {
	return param.Counts{Facets: 1, Corners: 4, Vertices: 4, FaceCorners: 4, FaceVertices: 4, ColorSamples: colorSamples}
}

// constantCounts is the Counts record for non-geometric requests (Option,
// Attribute, Surface, Projection, light shaders): every class multiplier
// collapses to 1, so a uniform-declared shader parameter binds one element
// exactly as a constant one would.
func constantCounts(colorSamples int) param.Counts {
	return param.Counts{Facets: 1, Corners: 1, Vertices: 1, FaceCorners: 1, FaceVertices: 1, ColorSamples: colorSamples}
}

// polygonCounts computes the Counts record for a simple polygon with the
// given vertex count.
func polygonCounts(nverts, colorSamples int) param.Counts {
	return param.Counts{Facets: 1, Corners: nverts, Vertices: nverts, FaceCorners: nverts, FaceVertices: nverts, ColorSamples: colorSamples}
}

// subdivisionCounts computes the Counts record for a subdivision mesh: one
// facet per face, vertex/varying counts equal to the distinct vertex-index
// range, and facevarying/facevertex counts equal to the flattened
// face-corner list length.
func subdivisionCounts(nverts []int, vertIdx []int, colorSamples int) param.Counts {
	maxIdx := -1
	for _, i := range vertIdx {
		if i > maxIdx {
			maxIdx = i
		}
	}
	return param.Counts{
		Facets:       len(nverts),
		Corners:      maxIdx + 1,
		Vertices:     maxIdx + 1,
		FaceCorners:  len(vertIdx),
		FaceVertices: len(vertIdx),
		ColorSamples: colorSamples,
	}
}
