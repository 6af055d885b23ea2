package mesh

import (
	"math"

	"github.com/toolmill/camstrat/pkg/geometry"
)

// weldTolerance is the vertex merge distance used when indexing a triangle
// soup. Vertices quantized to the same grid cell collapse to one index.
const weldTolerance = Epsilon

type weldKey struct {
	x, y, z int64
}

func quantize(v geometry.Vector3) weldKey {
	return weldKey{
		x: int64(math.Round(v.X / weldTolerance)),
		y: int64(math.Round(v.Y / weldTolerance)),
		z: int64(math.Round(v.Z / weldTolerance)),
	}
}

// FromTriangles builds an indexed mesh from a triangle soup, merging
// duplicate vertices within the weld tolerance. The result is unrepaired:
// call Repair before feeding it to the extractor.
func FromTriangles(name string, triangles []geometry.Triangle) *Mesh {
	m := &Mesh{Name: name}
	index := make(map[weldKey]int)

	addVertex := func(v geometry.Vector3) int {
		key := quantize(v)
		if idx, ok := index[key]; ok {
			return idx
		}
		idx := len(m.Vertices)
		m.Vertices = append(m.Vertices, v)
		index[key] = idx
		return idx
	}

	for _, tri := range triangles {
		face := [3]int{addVertex(tri.V1), addVertex(tri.V2), addVertex(tri.V3)}
		m.Faces = append(m.Faces, face)
	}
	return m
}

// Repair validates and normalizes a mesh. It drops faces with out-of-range
// or repeated indices, drops exact duplicate faces, drops degenerate
// (collinear) faces, discards unreferenced vertices, and rebases the mesh so
// its minimum bound sits at the origin. The bounding box is unchanged apart
// from that translation.
//
// Returns ErrEmpty when no geometry is present and ErrDegenerateOnly when
// faces were present but none survived filtering.
func Repair(m *Mesh) (*Mesh, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrEmpty
	}

	seen := make(map[[3]int]bool, len(m.Faces))

	var faces [][3]int
	for _, f := range m.Faces {
		if !indicesValid(f, len(m.Vertices)) {
			continue
		}

		key := canonicalFaceKey(f)
		if seen[key] {
			continue
		}
		seen[key] = true

		tri := geometry.Triangle{
			V1: m.Vertices[f[0]],
			V2: m.Vertices[f[1]],
			V3: m.Vertices[f[2]],
		}
		if tri.IsDegenerate(Epsilon) {
			continue
		}
		faces = append(faces, f)
	}

	if len(faces) == 0 {
		return nil, ErrDegenerateOnly
	}

	// Compact to referenced vertices only.
	remap := make(map[int]int)
	repaired := &Mesh{Name: m.Name}
	for i, f := range faces {
		for j, idx := range f {
			newIdx, ok := remap[idx]
			if !ok {
				newIdx = len(repaired.Vertices)
				repaired.Vertices = append(repaired.Vertices, m.Vertices[idx])
				remap[idx] = newIdx
			}
			faces[i][j] = newIdx
		}
	}
	repaired.Faces = faces

	rebase(repaired)
	return repaired, nil
}

func indicesValid(f [3]int, vertexCount int) bool {
	for _, idx := range f {
		if idx < 0 || idx >= vertexCount {
			return false
		}
	}
	return f[0] != f[1] && f[1] != f[2] && f[0] != f[2]
}

// canonicalFaceKey sorts the three indices so duplicate faces are detected
// regardless of winding or rotation.
func canonicalFaceKey(f [3]int) [3]int {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// rebase translates all vertices so the minimum bound is the origin.
func rebase(m *Mesh) {
	bounds := m.Bounds()
	offset := bounds.Min.Mul(-1)
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(offset)
	}
}
