package subdiv

// PrimFace is the renderable output for one control-mesh face: a compact
// local vertex numbering with positions, normals, texture coordinates and
// any remaining attribute channels, plus a triangle index list into that
// numbering.
type PrimFace struct {
	OrigFace  int
	Positions []float64 // 3 per local vertex
	Normals   []float64 // 3 per local vertex
	ST        []float64 // 2 per local vertex
	Channels  []Channel // remaining vertex/varying/per-face channels, remapped
	Triangles []int     // triples of local vertex indices
}

// Triangulate converts refinement level (u, v) into per-original-face
// triangle data. Hole facets and facets marked as uninterpolated boundary
// are omitted. Missing normals are derived from facet geometry; missing
// texture coordinates fall back to "s"/"t" packing and finally to the
// first two position components.
func (t *Tessellator) Triangulate(u, v float64) []PrimFace {
	m := t.Subdivide(u, v)
	pos := m.Channel("P")
	if pos == nil {
		return nil
	}
	m.ensureNormals()
	st, stFromFaceMesh := m.findST()

	var out []PrimFace
	var cur *PrimFace
	local := make(map[int]int)
	fmLocal := make(map[int]int) // main vertex -> face-mesh vertex

	flush := func() {
		if cur == nil {
			return
		}
		cur.fill(m, local, fmLocal, pos, st, stFromFaceMesh)
		out = append(out, *cur)
		cur = nil
	}

	for f := range m.Facets {
		fc := &m.Facets[f]
		if fc.Type == FacetHole || fc.Boundary {
			continue
		}
		if cur == nil || cur.OrigFace != fc.OrigFace {
			flush()
			cur = &PrimFace{OrigFace: fc.OrigFace}
			clear(local)
			clear(fmLocal)
		}
		verts := m.FacetVerts(f)
		for i, vtx := range verts {
			if _, ok := local[vtx]; !ok {
				local[vtx] = len(local)
			}
			if m.FaceMesh != nil {
				fmLocal[vtx] = m.FaceMesh.FacetVerts(f)[i]
			}
		}
		// Fan from the facet's last corner.
		k := len(verts)
		for i := 1; i < k-1; i++ {
			cur.Triangles = append(cur.Triangles,
				local[verts[k-1]], local[verts[i]], local[verts[i-1]])
		}
	}
	flush()
	return out
}

// fill populates the PrimFace's per-local-vertex arrays from the level
// mesh, using the accumulated local numbering.
func (p *PrimFace) fill(m *Mesh, local, fmLocal map[int]int, pos, st *Channel, stFromFaceMesh bool) {
	n := len(local)
	byLocal := make([]int, n)
	for vtx, l := range local {
		byLocal[l] = vtx
	}

	p.Positions = make([]float64, 3*n)
	p.Normals = make([]float64, 3*n)
	p.ST = make([]float64, 2*n)
	for l, vtx := range byLocal {
		copy(p.Positions[3*l:], pos.Data[3*vtx:3*vtx+3])
		nrm := m.vertNormals[vtx]
		p.Normals[3*l], p.Normals[3*l+1], p.Normals[3*l+2] = nrm.X, nrm.Y, nrm.Z
	}
	nch := m.Channel("N")
	if nch == nil {
		nch = m.VaryingChannel("N")
	}
	if nch != nil {
		for l, vtx := range byLocal {
			copy(p.Normals[3*l:], nch.Data[3*vtx:3*vtx+3])
		}
	}
	switch {
	case st != nil && !stFromFaceMesh:
		for l, vtx := range byLocal {
			copy(p.ST[2*l:], st.Data[st.Comps*vtx:st.Comps*vtx+2])
		}
	case st != nil && stFromFaceMesh:
		for l, vtx := range byLocal {
			if fv, ok := fmLocal[vtx]; ok {
				copy(p.ST[2*l:], st.Data[st.Comps*fv:st.Comps*fv+2])
			}
		}
	case m.packSTInto(p.ST, byLocal):
		// "s" and "t" channels packed pairwise.
	default:
		// Documented convention: fall back to the first two position
		// components.
		for l := range byLocal {
			p.ST[2*l] = p.Positions[3*l]
			p.ST[2*l+1] = p.Positions[3*l+1]
		}
	}

	for _, ch := range m.VertexData {
		if ch.Name == "P" || ch.Name == "N" {
			continue
		}
		p.Channels = append(p.Channels, remapChannel(ch, byLocal))
	}
	for _, ch := range m.VaryingData {
		if ch.Name == "st" || ch.Name == "s" || ch.Name == "t" {
			continue
		}
		p.Channels = append(p.Channels, remapChannel(ch, byLocal))
	}
}

func remapChannel(ch Channel, byLocal []int) Channel {
	out := Channel{Name: ch.Name, Comps: ch.Comps, Data: make([]float64, ch.Comps*len(byLocal))}
	for l, vtx := range byLocal {
		copy(out.Data[ch.Comps*l:], ch.Data[ch.Comps*vtx:ch.Comps*(vtx+1)])
	}
	return out
}

// findST locates texture coordinates: an "st" channel on the main mesh
// (vertex or varying class) or on the per-face mesh.
func (m *Mesh) findST() (*Channel, bool) {
	if ch := m.Channel("st"); ch != nil {
		return ch, false
	}
	if ch := m.VaryingChannel("st"); ch != nil {
		return ch, false
	}
	if m.FaceMesh != nil {
		if ch := m.FaceMesh.Channel("st"); ch != nil {
			return ch, true
		}
		if ch := m.FaceMesh.VaryingChannel("st"); ch != nil {
			return ch, true
		}
	}
	return nil, false
}

// packSTInto fills dst from separate "s" and "t" channels if both exist.
func (m *Mesh) packSTInto(dst []float64, byLocal []int) bool {
	s, t := m.scalarChannel("s"), m.scalarChannel("t")
	if s == nil || t == nil {
		return false
	}
	for l, vtx := range byLocal {
		dst[2*l] = s.Data[vtx]
		dst[2*l+1] = t.Data[vtx]
	}
	return true
}

func (m *Mesh) scalarChannel(name string) *Channel {
	if ch := m.Channel(name); ch != nil && ch.Comps == 1 {
		return ch
	}
	if ch := m.VaryingChannel(name); ch != nil && ch.Comps == 1 {
		return ch
	}
	return nil
}

// ensureNormals derives face normals from each facet's first three
// vertices and averages them at vertices, retaining the result.
func (m *Mesh) ensureNormals() {
	if m.vertNormals != nil {
		return
	}
	m.faceNormals = make([]vec3, len(m.Facets))
	for f := range m.Facets {
		verts := m.FacetVerts(f)
		if len(verts) < 3 {
			continue
		}
		a, b, c := m.Position(verts[0]), m.Position(verts[1]), m.Position(verts[2])
		m.faceNormals[f] = b.sub(a).cross(c.sub(a)).normalized()
	}
	m.vertNormals = make([]vec3, len(m.Verts))
	for v := range m.Verts {
		var sum vec3
		for _, f := range m.AdjacentFaces(v) {
			sum = sum.add(m.faceNormals[f])
		}
		m.vertNormals[v] = sum.normalized()
	}
}
