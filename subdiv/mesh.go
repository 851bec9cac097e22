package subdiv

import (
	"fmt"
	"math"
	"sort"
)

// VertexType distinguishes rounded vertices from tagged corners.
type VertexType uint8

const (
	VertexRounded VertexType = iota
	VertexCorner
)

// FacetType distinguishes renderable facets from tagged holes.
type FacetType uint8

const (
	FacetFilled FacetType = iota
	FacetHole
)

// Edge is one mesh edge. Endpoints are canonically sorted, V1 < V2. F1 and
// F2 are the adjacent face indices in insertion order; a boundary edge has
// F2 == -1.
type Edge struct {
	V1, V2 int
	F1, F2 int
	Blend  float64 // 0 = smooth, 1 = fully sharp crease
}

// Boundary reports whether e has exactly one adjacent face.
func (e Edge) Boundary() bool { return e.F2 < 0 }

// Vertex stores a vertex's incidence ranges into the mesh's VertEdges and
// VertFaces buffers, plus its tag state.
type Vertex struct {
	Type  VertexType
	Blend float64 // corner blend, 0 = rounded, 1 = sharp corner

	EdgeStart, EdgeCount int // range into Mesh.VertEdges
	FaceStart, FaceCount int // range into Mesh.VertFaces
}

// Facet is one face at some refinement level: its corner range into the
// face-vertex and face-edge buffers, its tag state, and the index of the
// control-mesh face it descends from.
type Facet struct {
	VertStart, VertCount int // range into Mesh.FaceVerts / Mesh.FaceEdges

	Type     FacetType
	Boundary bool // touches an uninterpolated mesh boundary; omitted on output
	OrigFace int
}

// Channel is one named per-vertex attribute array: Comps float values for
// every vertex of the owning mesh level.
type Channel struct {
	Name  string
	Comps int
	Data  []float64
}

// Mesh is one refinement level of a subdivision surface. Vertices, edges
// and facets cross-reference each other through contiguous index buffers.
type Mesh struct {
	Verts  []Vertex
	Edges  []Edge
	Facets []Facet

	FaceVerts []int // facet corner -> vertex index
	FaceEdges []int // facet corner -> edge index (edge following that corner)
	VertEdges []int // vertex -> incident edge indices
	VertFaces []int // vertex -> adjacent face indices

	// VertexData channels follow the full Catmull–Clark rule on
	// refinement; positions live here under the name "P". VaryingData
	// channels follow the linear rule.
	VertexData  []Channel
	VaryingData []Channel

	// FaceMesh is the separate per-face (unwelded) mesh carrying
	// face-vertex (VertexData) and face-varying (VaryingData) channels,
	// refined in parallel with this one. Nil when no per-face channels
	// were supplied.
	FaceMesh *Mesh

	// InterpolateBoundary records whether the interpolateboundary tag was
	// applied; without it, facets touching the boundary are marked and
	// omitted from rendering output.
	InterpolateBoundary bool

	// Lazily derived on first Triangulate call and retained.
	faceNormals []vec3
	vertNormals []vec3
}

// Position returns vertex i's position from the "P" channel.
func (m *Mesh) Position(i int) vec3 {
	ch := m.Channel("P")
	if ch == nil {
		return vec3{}
	}
	return vec3{ch.Data[3*i], ch.Data[3*i+1], ch.Data[3*i+2]}
}

// Channel finds a vertex-class channel by name.
func (m *Mesh) Channel(name string) *Channel {
	for i := range m.VertexData {
		if m.VertexData[i].Name == name {
			return &m.VertexData[i]
		}
	}
	return nil
}

// VaryingChannel finds a varying-class channel by name.
func (m *Mesh) VaryingChannel(name string) *Channel {
	for i := range m.VaryingData {
		if m.VaryingData[i].Name == name {
			return &m.VaryingData[i]
		}
	}
	return nil
}

// FacetVerts returns facet f's vertex indices.
func (m *Mesh) FacetVerts(f int) []int {
	fc := &m.Facets[f]
	return m.FaceVerts[fc.VertStart : fc.VertStart+fc.VertCount]
}

// FacetEdges returns facet f's edge indices.
func (m *Mesh) FacetEdges(f int) []int {
	fc := &m.Facets[f]
	return m.FaceEdges[fc.VertStart : fc.VertStart+fc.VertCount]
}

// IncidentEdges returns vertex v's incident edge indices.
func (m *Mesh) IncidentEdges(v int) []int {
	vt := &m.Verts[v]
	return m.VertEdges[vt.EdgeStart : vt.EdgeStart+vt.EdgeCount]
}

// AdjacentFaces returns vertex v's adjacent face indices.
func (m *Mesh) AdjacentFaces(v int) []int {
	vt := &m.Verts[v]
	return m.VertFaces[vt.FaceStart : vt.FaceStart+vt.FaceCount]
}

// otherEnd returns the endpoint of edge e that is not v.
func (m *Mesh) otherEnd(e, v int) int {
	if m.Edges[e].V1 == v {
		return m.Edges[e].V2
	}
	return m.Edges[e].V1
}

// BuildMesh constructs the base mesh of a subdivision surface from a
// control mesh (per-face vertex counts plus a flattened vertex-index
// buffer) and its tag list. nargs holds one (integer-count, float-count)
// pair per tag, indexing into intArgs and floatArgs. warn, if non-nil,
// receives a message for every recoverable tag problem.
func BuildMesh(nverts, vertIdx []int, tags []string, nargs, intArgs []int, floatArgs []float64, warn func(string)) (*Mesh, error) {
	if warn == nil {
		warn = func(string) {}
	}
	total := 0
	for i, n := range nverts {
		if n < 3 {
			return nil, fmt.Errorf("subdiv: face %d has %d vertices, need at least 3", i, n)
		}
		total += n
	}
	if total != len(vertIdx) {
		return nil, fmt.Errorf("subdiv: vertex-index buffer has %d entries, face counts sum to %d", len(vertIdx), total)
	}
	maxVert := -1
	for _, v := range vertIdx {
		if v < 0 {
			return nil, fmt.Errorf("subdiv: negative vertex index %d", v)
		}
		if v > maxVert {
			maxVert = v
		}
	}

	m := &Mesh{
		Verts:     make([]Vertex, maxVert+1),
		Facets:    make([]Facet, len(nverts)),
		FaceVerts: append([]int(nil), vertIdx...),
	}
	start := 0
	for i, n := range nverts {
		m.Facets[i] = Facet{VertStart: start, VertCount: n, OrigFace: i}
		start += n
	}
	m.buildTopology()
	if err := m.applyTags(tags, nargs, intArgs, floatArgs, warn); err != nil {
		return nil, err
	}
	if !m.InterpolateBoundary {
		m.markBoundaryFacets()
	}
	return m, nil
}

// buildTopology derives Edges, FaceEdges, VertEdges and VertFaces from
// Facets and FaceVerts. Edges are deduplicated with canonically sorted
// endpoints; adjacent faces are recorded in insertion order.
func (m *Mesh) buildTopology() {
	type key struct{ a, b int }
	index := make(map[key]int)
	m.Edges = m.Edges[:0]
	m.FaceEdges = make([]int, len(m.FaceVerts))

	for f := range m.Facets {
		verts := m.FacetVerts(f)
		for i, v := range verts {
			w := verts[(i+1)%len(verts)]
			a, b := v, w
			if a > b {
				a, b = b, a
			}
			k := key{a, b}
			e, ok := index[k]
			if !ok {
				e = len(m.Edges)
				index[k] = e
				m.Edges = append(m.Edges, Edge{V1: a, V2: b, F1: f, F2: -1})
			} else {
				m.Edges[e].F2 = f
			}
			m.FaceEdges[m.Facets[f].VertStart+i] = e
		}
	}

	// Count incidences, allocate ranges, fill.
	for i := range m.Verts {
		m.Verts[i].EdgeCount = 0
		m.Verts[i].FaceCount = 0
	}
	for _, e := range m.Edges {
		m.Verts[e.V1].EdgeCount++
		m.Verts[e.V2].EdgeCount++
	}
	for f := range m.Facets {
		for _, v := range m.FacetVerts(f) {
			m.Verts[v].FaceCount++
		}
	}
	edgeStart, faceStart := 0, 0
	for i := range m.Verts {
		m.Verts[i].EdgeStart = edgeStart
		m.Verts[i].FaceStart = faceStart
		edgeStart += m.Verts[i].EdgeCount
		faceStart += m.Verts[i].FaceCount
	}
	m.VertEdges = make([]int, edgeStart)
	m.VertFaces = make([]int, faceStart)
	edgeFill := make([]int, len(m.Verts))
	faceFill := make([]int, len(m.Verts))
	for e, edge := range m.Edges {
		for _, v := range [2]int{edge.V1, edge.V2} {
			m.VertEdges[m.Verts[v].EdgeStart+edgeFill[v]] = e
			edgeFill[v]++
		}
	}
	for f := range m.Facets {
		for _, v := range m.FacetVerts(f) {
			m.VertFaces[m.Verts[v].FaceStart+faceFill[v]] = f
			faceFill[v]++
		}
	}
}

// SharpnessBlend converts a RenderMan sharpness value s into the [0, 1]
// blend factor 1 - 1/(s+1); infinite sharpness is fully sharp.
func SharpnessBlend(s float64) float64 {
	if math.IsInf(s, 1) {
		return 1
	}
	if s <= 0 {
		return 0
	}
	b := 1 - 1/(s+1)
	if b > 1 {
		return 1
	}
	return b
}

func (m *Mesh) applyTags(tags []string, nargs, intArgs []int, floatArgs []float64, warn func(string)) error {
	if len(nargs) != 2*len(tags) {
		return fmt.Errorf("subdiv: tag list has %d tags but %d argument counts (need 2 per tag)", len(tags), len(nargs))
	}
	intPos, floatPos := 0, 0
	for t, tag := range tags {
		ni, nf := nargs[2*t], nargs[2*t+1]
		if intPos+ni > len(intArgs) || floatPos+nf > len(floatArgs) {
			return fmt.Errorf("subdiv: tag %q wants %d int and %d float arguments, buffers exhausted", tag, ni, nf)
		}
		ints := intArgs[intPos : intPos+ni]
		floats := floatArgs[floatPos : floatPos+nf]
		intPos += ni
		floatPos += nf

		switch tag {
		case "hole":
			for _, f := range ints {
				if f < 0 || f >= len(m.Facets) {
					warn(fmt.Sprintf("hole tag names face %d, mesh has %d faces", f, len(m.Facets)))
					continue
				}
				m.Facets[f].Type = FacetHole
			}
		case "crease":
			m.applyCrease(ints, floats, warn)
		case "corner":
			m.applyCorner(ints, floats, warn)
		case "interpolateboundary":
			m.applyInterpolateBoundary()
		default:
			warn(fmt.Sprintf("unknown subdivision tag %q ignored", tag))
		}
	}
	return nil
}

// applyCrease marks each consecutive edge of the vertex chain sharp. A
// sharpness per edge is the fully general form; a single sharpness for the
// whole chain is the common one. With more edges than sharpness values the
// last value repeats, with a warning.
func (m *Mesh) applyCrease(chain []int, sharp []float64, warn func(string)) {
	if len(chain) < 2 {
		warn("crease tag needs at least 2 vertices")
		return
	}
	if len(sharp) == 0 {
		warn("crease tag has no sharpness value; ignored")
		return
	}
	edges := len(chain) - 1
	if len(sharp) > 1 && len(sharp) < edges {
		warn(fmt.Sprintf("crease tag has %d sharpness values for %d edges; repeating the last", len(sharp), edges))
	}
	for i := 0; i < edges; i++ {
		s := sharp[min(i, len(sharp)-1)]
		e, ok := m.findEdge(chain[i], chain[i+1])
		if !ok {
			warn(fmt.Sprintf("crease tag references nonexistent edge (%d, %d)", chain[i], chain[i+1]))
			continue
		}
		m.Edges[e].Blend = SharpnessBlend(s)
	}
}

// applyCorner marks each listed vertex as a corner. One sharpness for all
// corners or one per corner; anything in between repeats the last value,
// with a warning.
func (m *Mesh) applyCorner(verts []int, sharp []float64, warn func(string)) {
	if len(sharp) == 0 {
		warn("corner tag has no sharpness value; ignored")
		return
	}
	if len(sharp) > 1 && len(sharp) < len(verts) {
		warn(fmt.Sprintf("corner tag has %d sharpness values for %d corners; repeating the last", len(sharp), len(verts)))
	}
	for i, v := range verts {
		if v < 0 || v >= len(m.Verts) {
			warn(fmt.Sprintf("corner tag names vertex %d, mesh has %d vertices", v, len(m.Verts)))
			continue
		}
		m.Verts[v].Type = VertexCorner
		m.Verts[v].Blend = SharpnessBlend(sharp[min(i, len(sharp)-1)])
	}
}

// applyInterpolateBoundary turns every boundary edge into a fully sharp
// crease and every vertex with two or more incident boundary edges into a
// fully sharp corner.
func (m *Mesh) applyInterpolateBoundary() {
	m.InterpolateBoundary = true
	for e := range m.Edges {
		if m.Edges[e].Boundary() {
			m.Edges[e].Blend = 1
		}
	}
	for v := range m.Verts {
		n := 0
		for _, e := range m.IncidentEdges(v) {
			if m.Edges[e].Boundary() {
				n++
			}
		}
		if n >= 2 {
			m.Verts[v].Type = VertexCorner
			m.Verts[v].Blend = 1
		}
	}
}

// markBoundaryFacets flags every facet with a boundary edge. Without
// boundary interpolation the subdivided surface does not reach the
// boundary, so those facets are dropped from rendering output.
func (m *Mesh) markBoundaryFacets() {
	for f := range m.Facets {
		for _, e := range m.FacetEdges(f) {
			if m.Edges[e].Boundary() {
				m.Facets[f].Boundary = true
				break
			}
		}
	}
}

func (m *Mesh) findEdge(v, w int) (int, bool) {
	if v > w {
		v, w = w, v
	}
	if v < 0 || w >= len(m.Verts) {
		return 0, false
	}
	for _, e := range m.IncidentEdges(v) {
		if m.Edges[e].V1 == v && m.Edges[e].V2 == w {
			return e, true
		}
	}
	return 0, false
}

// Validate checks the structural invariants that must hold at every
// refinement level: canonical edge endpoints, consistent facet corner
// counts, and each edge appearing exactly once in the incident-edge list
// of both endpoints.
func (m *Mesh) Validate() error {
	for i, e := range m.Edges {
		if e.V2 < 0 {
			return fmt.Errorf("subdiv: edge %d has unset second endpoint", i)
		}
		if e.V1 >= e.V2 {
			return fmt.Errorf("subdiv: edge %d endpoints (%d, %d) are not canonically sorted", i, e.V1, e.V2)
		}
	}
	total := 0
	for _, f := range m.Facets {
		total += f.VertCount
	}
	if total != len(m.FaceVerts) {
		return fmt.Errorf("subdiv: facet corner counts sum to %d, face-vertex buffer has %d entries", total, len(m.FaceVerts))
	}
	for i, e := range m.Edges {
		for _, v := range [2]int{e.V1, e.V2} {
			seen := 0
			for _, ie := range m.IncidentEdges(v) {
				if ie == i {
					seen++
				}
			}
			if seen != 1 {
				return fmt.Errorf("subdiv: edge %d appears %d times in vertex %d's incident-edge list", i, seen, v)
			}
		}
	}
	return nil
}

// AddVertexChannel attaches a vertex-class attribute channel (full
// Catmull–Clark refinement rule). Positions use the name "P".
func (m *Mesh) AddVertexChannel(name string, comps int, data []float64) error {
	if len(data) != comps*len(m.Verts) {
		return fmt.Errorf("subdiv: channel %q has %d values, want %d (%d per vertex)", name, len(data), comps*len(m.Verts), comps)
	}
	m.VertexData = append(m.VertexData, Channel{Name: name, Comps: comps, Data: append([]float64(nil), data...)})
	return nil
}

// AddVaryingChannel attaches a varying-class attribute channel (linear
// refinement rule).
func (m *Mesh) AddVaryingChannel(name string, comps int, data []float64) error {
	if len(data) != comps*len(m.Verts) {
		return fmt.Errorf("subdiv: channel %q has %d values, want %d (%d per vertex)", name, len(data), comps*len(m.Verts), comps)
	}
	m.VaryingData = append(m.VaryingData, Channel{Name: name, Comps: comps, Data: append([]float64(nil), data...)})
	return nil
}

// AddFaceVertexChannel attaches a face-vertex-class channel: one value per
// face corner, refined with the Catmull–Clark rule on the per-face mesh.
func (m *Mesh) AddFaceVertexChannel(name string, comps int, data []float64) error {
	fm, err := m.ensureFaceMesh()
	if err != nil {
		return err
	}
	return fm.AddVertexChannel(name, comps, data)
}

// AddFaceVaryingChannel attaches a face-varying-class channel: one value
// per face corner, refined with the linear rule on the per-face mesh.
func (m *Mesh) AddFaceVaryingChannel(name string, comps int, data []float64) error {
	fm, err := m.ensureFaceMesh()
	if err != nil {
		return err
	}
	return fm.AddVaryingChannel(name, comps, data)
}

// ensureFaceMesh lazily builds the unwelded per-face companion mesh: the
// same face structure with every corner its own vertex, so per-corner
// attributes can carry seams.
func (m *Mesh) ensureFaceMesh() (*Mesh, error) {
	if m.FaceMesh != nil {
		return m.FaceMesh, nil
	}
	fm := &Mesh{
		Verts:     make([]Vertex, len(m.FaceVerts)),
		Facets:    make([]Facet, len(m.Facets)),
		FaceVerts: make([]int, len(m.FaceVerts)),
	}
	for i := range fm.FaceVerts {
		fm.FaceVerts[i] = i
	}
	for f, fc := range m.Facets {
		fm.Facets[f] = Facet{VertStart: fc.VertStart, VertCount: fc.VertCount, Type: fc.Type, OrigFace: fc.OrigFace}
	}
	fm.buildTopology()
	// Per-face edges mirror the sharpness of the edges they shadow so
	// face-vertex data creases where the surface creases.
	for f := range m.Facets {
		src := m.FacetEdges(f)
		dst := fm.FacetEdges(f)
		for i := range src {
			fm.Edges[dst[i]].Blend = m.Edges[src[i]].Blend
		}
	}
	for v := range m.Verts {
		if m.Verts[v].Type != VertexCorner {
			continue
		}
		for _, f := range m.AdjacentFaces(v) {
			verts := m.FacetVerts(f)
			for i, mv := range verts {
				if mv == v {
					fv := fm.FacetVerts(f)[i]
					fm.Verts[fv].Type = VertexCorner
					fm.Verts[fv].Blend = m.Verts[v].Blend
				}
			}
		}
	}
	fm.InterpolateBoundary = true // per-face data always interpolates its seams
	m.FaceMesh = fm
	return fm, nil
}

// SortedEdgeKeys returns the edges as (v1, v2) pairs in lexicographic
// order, used by tests and debug dumps.
func (m *Mesh) SortedEdgeKeys() [][2]int {
	out := make([][2]int, len(m.Edges))
	for i, e := range m.Edges {
		out[i] = [2]int{e.V1, e.V2}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
