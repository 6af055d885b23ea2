// Package mesh provides the validated, indexed triangle mesh consumed by the
// feature extraction pipeline, along with loading and repair of raw STL input.
package mesh

import (
	"github.com/toolmill/camstrat/pkg/geometry"
)

// Epsilon is the geometric tolerance, in mesh units, below which a cross
// product is considered degenerate. It is shared by repair, feature
// extraction, and the labeler so all call sites agree on what counts as a
// usable face.
const Epsilon = 1e-6

// Mesh is an immutable triangulated surface: vertex positions plus faces of
// three vertex indices each. Once built by Repair it is never mutated;
// callers own it for the duration of an extraction call.
type Mesh struct {
	Name     string
	Vertices []geometry.Vector3
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Triangle materializes face i as a geometry.Triangle with a recomputed
// normal.
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	tri := geometry.Triangle{
		V1: m.Vertices[f[0]],
		V2: m.Vertices[f[1]],
		V3: m.Vertices[f[2]],
	}
	tri.Normal = tri.CalculateNormal()
	return tri
}

// Bounds returns the axis-aligned bounding box over all vertices.
func (m *Mesh) Bounds() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range m.Vertices {
		bbox.Extend(v)
	}
	return bbox
}
