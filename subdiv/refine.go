package subdiv

// Refine computes one Catmull–Clark subdivision step, returning a new Mesh
// whose facets are all quads. The receiver is left untouched; the child
// mesh's vertices are laid out as [old vertex points | edge points | face
// points], so index arithmetic alone identifies a child vertex's origin.
func (m *Mesh) Refine() *Mesh {
	nV, nE, nF := len(m.Verts), len(m.Edges), len(m.Facets)

	child := &Mesh{
		Verts:               make([]Vertex, nV+nE+nF),
		InterpolateBoundary: m.InterpolateBoundary,
	}

	// Every old facet with k corners yields k quads: corner i becomes
	// (v_i, edge-point after it, face point, edge-point before it).
	for f := range m.Facets {
		fc := &m.Facets[f]
		verts := m.FacetVerts(f)
		edges := m.FacetEdges(f)
		k := len(verts)
		for i := 0; i < k; i++ {
			child.Facets = append(child.Facets, Facet{
				VertStart: len(child.FaceVerts),
				VertCount: 4,
				Type:      fc.Type,
				OrigFace:  fc.OrigFace,
			})
			child.FaceVerts = append(child.FaceVerts,
				verts[i],
				nV+edges[i],
				nV+nE+f,
				nV+edges[(i+k-1)%k],
			)
		}
	}
	child.buildTopology()

	// Old vertices keep their corner tags; child edges halving a parent
	// edge inherit its sharpness. Edges radiating from face points are
	// always smooth.
	for v := 0; v < nV; v++ {
		child.Verts[v].Type = m.Verts[v].Type
		child.Verts[v].Blend = m.Verts[v].Blend
	}
	for e := range child.Edges {
		ce := &child.Edges[e]
		if ce.V1 < nV && ce.V2 >= nV && ce.V2 < nV+nE {
			ce.Blend = m.Edges[ce.V2-nV].Blend
		}
	}
	if !child.InterpolateBoundary {
		child.markBoundaryFacets()
	}

	for _, ch := range m.VertexData {
		child.VertexData = append(child.VertexData, Channel{
			Name:  ch.Name,
			Comps: ch.Comps,
			Data:  m.refineFull(ch),
		})
	}
	for _, ch := range m.VaryingData {
		child.VaryingData = append(child.VaryingData, Channel{
			Name:  ch.Name,
			Comps: ch.Comps,
			Data:  m.refineLinear(ch),
		})
	}
	if m.FaceMesh != nil {
		child.FaceMesh = m.FaceMesh.Refine()
	}
	return child
}

// refineFull applies the full Catmull–Clark rule to one channel, producing
// the child mesh's data in [old | edge | face] vertex order.
func (m *Mesh) refineFull(ch Channel) []float64 {
	nV, nE, nF := len(m.Verts), len(m.Edges), len(m.Facets)
	c := ch.Comps
	out := make([]float64, c*(nV+nE+nF))

	at := func(v int) []float64 { return ch.Data[c*v : c*(v+1)] }

	// Face points: centroid of the old face's corners.
	facePts := out[c*(nV+nE):]
	for f := range m.Facets {
		verts := m.FacetVerts(f)
		dst := facePts[c*f : c*(f+1)]
		for _, v := range verts {
			addScaled(dst, at(v), 1/float64(len(verts)))
		}
	}

	// Edge points.
	edgePts := out[c*nV:]
	for e, edge := range m.Edges {
		dst := edgePts[c*e : c*(e+1)]
		a, b := at(edge.V1), at(edge.V2)
		switch {
		case edge.Boundary() || edge.Blend >= 1:
			addScaled(dst, a, 0.5)
			addScaled(dst, b, 0.5)
		case edge.Blend <= 0:
			addScaled(dst, a, 0.25)
			addScaled(dst, b, 0.25)
			addScaled(dst, facePts[c*edge.F1:c*(edge.F1+1)], 0.25)
			addScaled(dst, facePts[c*edge.F2:c*(edge.F2+1)], 0.25)
		default:
			// Partially sharp: blend the crease midpoint into the
			// smooth point.
			smoothW := (1 - edge.Blend) * 0.25
			sharpW := edge.Blend * 0.5
			addScaled(dst, a, smoothW+sharpW)
			addScaled(dst, b, smoothW+sharpW)
			addScaled(dst, facePts[c*edge.F1:c*(edge.F1+1)], smoothW)
			addScaled(dst, facePts[c*edge.F2:c*(edge.F2+1)], smoothW)
		}
	}

	// Vertex points.
	scratch := make([]float64, c)
	for v := range m.Verts {
		dst := out[c*v : c*(v+1)]
		old := at(v)
		incident := m.IncidentEdges(v)
		n := len(incident)

		// Classify this vertex's incident edges once.
		var sharpEnds []int
		sharpBlend := 0.0
		bEnds := boundaryEnds(m, v, incident)
		for _, e := range incident {
			if m.Edges[e].Blend > 0 {
				sharpEnds = append(sharpEnds, m.otherEnd(e, v))
				sharpBlend += m.Edges[e].Blend
			}
		}

		clear(scratch)
		smooth := scratch
		switch {
		case len(bEnds) > 0:
			// Boundary vertex: average with its boundary neighbours.
			k := float64(len(bEnds))
			addScaled(smooth, old, 6/(6+k))
			for _, w := range bEnds {
				addScaled(smooth, at(w), 1/(6+k))
			}
		default:
			fn := float64(n)
			addScaled(smooth, old, (fn-2)/fn)
			for _, e := range incident {
				addScaled(smooth, at(m.otherEnd(e, v)), 1/(fn*fn))
			}
			for _, f := range m.AdjacentFaces(v) {
				addScaled(smooth, facePts[c*f:c*(f+1)], 1/(fn*fn))
			}
		}

		switch {
		case len(sharpEnds) > 2:
			copy(dst, old)
		case len(sharpEnds) == 2:
			// Crease vertex: blend toward (6V + Vs1 + Vs2)/8 by the
			// average sharpness of its two crease edges.
			b := sharpBlend / 2
			addScaled(dst, smooth, 1-b)
			addScaled(dst, old, b*6/8)
			addScaled(dst, at(sharpEnds[0]), b/8)
			addScaled(dst, at(sharpEnds[1]), b/8)
		default:
			copy(dst, smooth)
		}

		if m.Verts[v].Type == VertexCorner {
			b := m.Verts[v].Blend
			for i := range dst {
				dst[i] = (1-b)*dst[i] + b*old[i]
			}
		}
	}
	return out
}

// refineLinear applies the linear rule to one channel: copy at old
// vertices, average at edge midpoints, centroid at face centers.
func (m *Mesh) refineLinear(ch Channel) []float64 {
	nV, nE, nF := len(m.Verts), len(m.Edges), len(m.Facets)
	c := ch.Comps
	out := make([]float64, c*(nV+nE+nF))
	copy(out, ch.Data)
	at := func(v int) []float64 { return ch.Data[c*v : c*(v+1)] }
	for e, edge := range m.Edges {
		dst := out[c*(nV+e) : c*(nV+e+1)]
		addScaled(dst, at(edge.V1), 0.5)
		addScaled(dst, at(edge.V2), 0.5)
	}
	for f := range m.Facets {
		verts := m.FacetVerts(f)
		dst := out[c*(nV+nE+f) : c*(nV+nE+f+1)]
		for _, v := range verts {
			addScaled(dst, at(v), 1/float64(len(verts)))
		}
	}
	return out
}

// boundaryEnds collects the far endpoints of v's incident boundary edges.
func boundaryEnds(m *Mesh, v int, incident []int) []int {
	var ends []int
	for _, e := range incident {
		if m.Edges[e].Boundary() {
			ends = append(ends, m.otherEnd(e, v))
		}
	}
	return ends
}

func addScaled(dst, src []float64, w float64) {
	for i := range dst {
		dst[i] += w * src[i]
	}
}
