// Package subdiv implements the Catmull–Clark subdivision-surface
// tessellator: it converts a polygonal control mesh plus its tag list
// (holes, creases, corners, interpolateboundary) into renderable
// per-face triangle data.
//
// # Structure
//
// The tessellator is organized around three stages:
//   - Topology build: BuildMesh walks the control faces once, deduplicates
//     edges, fills the vertex/edge/face incidence buffers and applies tags.
//   - Refinement: Mesh.Refine computes one Catmull–Clark step, producing a
//     new Mesh whose facets are all quads. Tessellator caches each depth.
//   - Output: Tessellator.Triangulate remaps every surviving facet of a
//     refined level into compact per-original-face triangle arrays.
//
// All cross references between vertices, edges and facets are contiguous
// index buffers and integer handles, never pointers, so a whole refinement
// level is trivially copyable.
package subdiv
