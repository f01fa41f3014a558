// Package mesh provides the read-only vertex topologies that plates are
// segmented on.
//
// Every topology implements [Grid]:
//
//   - [Mesh]: explicit positions and neighbor lists, built directly or
//     from a triangle index buffer with [FromTriangles]
//   - [Lattice]: planar rectangular grid with 4- or 8-connectivity
//   - [NewIcosphere]: subdivided icosahedron projected onto a sphere
//
// Vertex ids are dense integers in [0, VertexCount()). Neighbor lists are
// symmetric and free of self loops; their order carries no meaning.
//
// Topologies that know their surface orientation also implement
// [Normaler]. Consumers that need a local tangent frame fall back to the
// radial direction of the edge midpoint when it is absent.
package mesh
