package geometry

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// Cross returns the (unnormalized) cross product of the two edge vectors
// anchored at V1. Its magnitude is twice the triangle area.
func (t Triangle) Cross() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2)
}

// CalculateNormal computes the unit normal vector for the triangle.
// Degenerate triangles yield the zero vector.
func (t Triangle) CalculateNormal() Vector3 {
	return t.Cross().Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.Cross().Length() / 2.0
}

// IsDegenerate reports whether the three vertices are collinear, i.e. the
// cross product magnitude falls below eps. Degenerate triangles carry no
// usable normal and must be excluded from area-dependent statistics.
func (t Triangle) IsDegenerate(eps float64) bool {
	return t.Cross().Length() <= eps
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}
