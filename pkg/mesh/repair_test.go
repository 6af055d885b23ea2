package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/toolmill/camstrat/pkg/geometry"
)

func tri(v1, v2, v3 geometry.Vector3) geometry.Triangle {
	return geometry.Triangle{V1: v1, V2: v2, V3: v3}
}

func TestFromTrianglesWeldsVertices(t *testing.T) {
	// Two triangles sharing an edge; shared vertices must collapse.
	triangles := []geometry.Triangle{
		tri(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)),
		tri(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0), geometry.NewVector3(0, 1, 0)),
	}

	m := FromTriangles("quad", triangles)
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 welded vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 faces, got %d", m.TriangleCount())
	}
}

func TestRepairDropsDuplicateAndDegenerateFaces(t *testing.T) {
	m := &Mesh{
		Vertices: []geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(0, 1, 0),
			geometry.NewVector3(2, 0, 0), // collinear with 0 and 1
		},
		Faces: [][3]int{
			{0, 1, 2},
			{1, 2, 0}, // duplicate of the first, rotated winding
			{0, 1, 3}, // degenerate: collinear vertices
			{0, 1, 1}, // repeated index
			{0, 1, 9}, // out of range
		},
	}

	repaired, err := Repair(m)
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if repaired.TriangleCount() != 1 {
		t.Errorf("expected 1 surviving face, got %d", repaired.TriangleCount())
	}
	if repaired.VertexCount() != 3 {
		t.Errorf("expected unreferenced vertices dropped, got %d vertices", repaired.VertexCount())
	}
}

func TestRepairRebasesToOrigin(t *testing.T) {
	m := FromTriangles("offset", []geometry.Triangle{
		tri(geometry.NewVector3(5, 5, 5), geometry.NewVector3(6, 5, 5), geometry.NewVector3(5, 7, 5)),
	})

	repaired, err := Repair(m)
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}

	bounds := repaired.Bounds()
	if bounds.Min.Length() > 1e-12 {
		t.Errorf("min bound should be at origin, got %v", bounds.Min)
	}

	// Repair must not change the extent, only translate it.
	size := bounds.Size()
	want := geometry.NewVector3(1, 2, 0)
	if size.Distance(want) > 1e-12 {
		t.Errorf("extent changed by rebase: expected %v, got %v", want, size)
	}
}

func TestRepairEmptyMesh(t *testing.T) {
	if _, err := Repair(&Mesh{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := Repair(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for nil mesh, got %v", err)
	}
}

func TestRepairDegenerateOnly(t *testing.T) {
	m := &Mesh{
		Vertices: []geometry.Vector3{
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 1, 1),
			geometry.NewVector3(2, 2, 2),
		},
		Faces: [][3]int{{0, 1, 2}},
	}
	if _, err := Repair(m); !errors.Is(err, ErrDegenerateOnly) {
		t.Errorf("expected ErrDegenerateOnly, got %v", err)
	}
}

func TestTriangleAccessor(t *testing.T) {
	m := FromTriangles("flat", []geometry.Triangle{
		tri(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)),
	})

	got := m.Triangle(0)
	if math.Abs(got.Area()-0.5) > 1e-12 {
		t.Errorf("expected area 0.5, got %v", got.Area())
	}
	if got.Normal.Distance(geometry.NewVector3(0, 0, 1)) > 1e-12 {
		t.Errorf("expected recomputed +Z normal, got %v", got.Normal)
	}
}
