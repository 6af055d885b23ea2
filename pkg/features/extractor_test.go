package features

import (
	"errors"
	"math"
	"testing"

	"github.com/toolmill/camstrat/pkg/geometry"
	"github.com/toolmill/camstrat/pkg/mesh"
)

func tri(v1, v2, v3 geometry.Vector3) geometry.Triangle {
	return geometry.Triangle{V1: v1, V2: v2, V3: v3}
}

func v(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

// unitCubeTriangles returns the 12 triangles of the unit cube with outward
// winding.
func unitCubeTriangles() []geometry.Triangle {
	return []geometry.Triangle{
		// bottom (z=0)
		tri(v(0, 0, 0), v(0, 1, 0), v(1, 0, 0)),
		tri(v(1, 0, 0), v(0, 1, 0), v(1, 1, 0)),
		// top (z=1)
		tri(v(0, 0, 1), v(1, 0, 1), v(0, 1, 1)),
		tri(v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)),
		// front (y=0)
		tri(v(0, 0, 0), v(1, 0, 0), v(0, 0, 1)),
		tri(v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)),
		// back (y=1)
		tri(v(0, 1, 0), v(0, 1, 1), v(1, 1, 0)),
		tri(v(1, 1, 0), v(0, 1, 1), v(1, 1, 1)),
		// left (x=0)
		tri(v(0, 0, 0), v(0, 0, 1), v(0, 1, 0)),
		tri(v(0, 1, 0), v(0, 0, 1), v(0, 1, 1)),
		// right (x=1)
		tri(v(1, 0, 0), v(1, 1, 0), v(1, 0, 1)),
		tri(v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)),
	}
}

func unitCube(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Repair(mesh.FromTriangles("cube", unitCubeTriangles()))
	if err != nil {
		t.Fatalf("cube repair failed: %v", err)
	}
	return m
}

func TestExtractUnitCube(t *testing.T) {
	f, stats, err := Extract(unitCube(t))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if f.BBox.Distance(v(1, 1, 1)) > 1e-12 {
		t.Errorf("bbox: expected (1,1,1), got %v", f.BBox)
	}
	if math.Abs(f.SurfaceArea-6.0) > 1e-9 {
		t.Errorf("surface area: expected 6, got %v", f.SurfaceArea)
	}
	if math.Abs(f.Volume-1.0) > 1e-9 {
		t.Errorf("volume: expected 1, got %v", f.Volume)
	}
	if math.Abs(f.PocketDepth-1.0) > 1e-12 {
		t.Errorf("pocket depth: expected 1, got %v", f.PocketDepth)
	}

	// Top and bottom are flat (bin 0), the four walls are vertical (bin 4).
	if math.Abs(f.SlopeHistogram[0]-2.0/6.0) > 1e-9 {
		t.Errorf("flat bin: expected 1/3, got %v", f.SlopeHistogram[0])
	}
	if math.Abs(f.SlopeHistogram[4]-4.0/6.0) > 1e-9 {
		t.Errorf("steep bin: expected 2/3, got %v", f.SlopeHistogram[4])
	}
	if math.Abs(f.FlatAreaRatio-1.0/3.0) > 1e-9 {
		t.Errorf("flat ratio: expected 1/3, got %v", f.FlatAreaRatio)
	}
	if math.Abs(f.SteepAreaRatio-2.0/3.0) > 1e-9 {
		t.Errorf("steep ratio: expected 2/3, got %v", f.SteepAreaRatio)
	}

	// Cube corners bend sharply, so the curvature proxy must be positive.
	if f.MeanCurvature <= 0 {
		t.Errorf("expected positive mean curvature, got %v", f.MeanCurvature)
	}
	if len(stats.Normals) != 12 || len(stats.Areas) != 12 {
		t.Errorf("expected 12 valid face samples, got %d/%d", len(stats.Normals), len(stats.Areas))
	}
}

func TestHistogramSumsToOne(t *testing.T) {
	f, _, err := Extract(unitCube(t))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	sum := 0.0
	for _, h := range f.SlopeHistogram {
		sum += h
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("histogram sum: expected 1.0, got %v", sum)
	}
}

func TestSlopeBinBoundaries(t *testing.T) {
	cases := []struct {
		slope float64
		bin   int
	}{
		{0, 0},
		{14.999999, 0},
		{15.0, 1}, // half-open boundary: exactly 15 belongs to the upper bin
		{30.0, 2},
		{44.5, 2},
		{59.999999, 3},
		{60.0, 4},
		{90.0, 4},
	}
	for _, c := range cases {
		if got := slopeBinIndex(c.slope); got != c.bin {
			t.Errorf("slopeBinIndex(%v): expected bin %d, got %d", c.slope, c.bin, got)
		}
	}
}

func TestExtractDeterminism(t *testing.T) {
	m := unitCube(t)
	f1, _, err := Extract(m)
	if err != nil {
		t.Fatal(err)
	}
	f2, _, err := Extract(m)
	if err != nil {
		t.Fatal(err)
	}

	v1, v2 := f1.Vector(), f2.Vector()
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Errorf("entry %d differs between runs: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestVolumeNonNegativeUnderReversedWinding(t *testing.T) {
	reversed := unitCubeTriangles()
	for i, tr := range reversed {
		reversed[i] = tri(tr.V1, tr.V3, tr.V2)
	}
	m, err := mesh.Repair(mesh.FromTriangles("inside-out", reversed))
	if err != nil {
		t.Fatalf("repair failed: %v", err)
	}

	f, _, err := Extract(m)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if math.Abs(f.Volume-1.0) > 1e-9 {
		t.Errorf("reversed winding volume: expected 1, got %v", f.Volume)
	}
}

func TestDegenerateFaceDoesNotChangeStatistics(t *testing.T) {
	clean, _, err := Extract(unitCube(t))
	if err != nil {
		t.Fatal(err)
	}

	// Same cube plus one sliver of collinear vertices inside the footprint.
	dirty := append(unitCubeTriangles(),
		tri(v(0, 0, 0), v(0.5, 0.5, 0), v(1, 1, 0)))
	m := mesh.FromTriangles("dirty", dirty)

	withSliver, _, err := Extract(m)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	cleanVec, dirtyVec := clean.Vector(), withSliver.Vector()
	for i := range cleanVec {
		if cleanVec[i] != dirtyVec[i] {
			t.Errorf("entry %d changed by degenerate face: %v vs %v", i, cleanVec[i], dirtyVec[i])
		}
	}
}

func TestExtractEmptyMesh(t *testing.T) {
	if _, _, err := Extract(&mesh.Mesh{}); !errors.Is(err, mesh.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestExtractZeroArea(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []geometry.Vector3{v(0, 0, 0), v(1, 1, 1), v(2, 2, 2)},
		Faces:    [][3]int{{0, 1, 2}},
	}
	if _, _, err := Extract(m); !errors.Is(err, mesh.ErrZeroArea) {
		t.Errorf("expected ErrZeroArea, got %v", err)
	}
}

func TestVolumeFallsBackToConvexHull(t *testing.T) {
	// A double-sided tetrahedron shell: every face appears in both windings,
	// so the signed volume integral cancels to zero and the convex hull
	// volume (1/6) must be substituted.
	corners := []geometry.Vector3{v(0, 0, 0), v(1, 0, 0), v(0, 1, 0), v(0, 0, 1)}
	faces := [][3]int{
		{0, 1, 2}, {0, 2, 1},
		{0, 1, 3}, {0, 3, 1},
		{0, 2, 3}, {0, 3, 2},
		{1, 2, 3}, {1, 3, 2},
	}
	m := &mesh.Mesh{Vertices: corners, Faces: faces}

	f, _, err := Extract(m)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if math.Abs(f.Volume-1.0/6.0) > 1e-9 {
		t.Errorf("expected hull volume 1/6, got %v", f.Volume)
	}
}

func TestVectorPacking(t *testing.T) {
	f, _, err := Extract(unitCube(t))
	if err != nil {
		t.Fatal(err)
	}

	vec := f.Vector()
	if len(vec) != CoreCount {
		t.Fatalf("expected %d core entries, got %d", CoreCount, len(vec))
	}
	if vec[0] != f.BBox.X || vec[3] != f.SurfaceArea || vec[4] != f.Volume {
		t.Error("leading entries out of order")
	}
	if vec[5] != f.SlopeHistogram[0] || vec[9] != f.SlopeHistogram[4] {
		t.Error("histogram entries out of order")
	}
	if vec[14] != f.PocketDepth {
		t.Error("pocket depth must be the final core entry")
	}

	full := AppendToolChannels(vec, 2.4, 6.0)
	if len(full) != ModelInputCount {
		t.Fatalf("expected %d model inputs, got %d", ModelInputCount, len(full))
	}
	if full[15] != 2.4 || full[16] != 6.0 {
		t.Error("tool channels must be step-over then tool diameter")
	}

	if len(Names()) != ModelInputCount {
		t.Errorf("expected %d names, got %d", ModelInputCount, len(Names()))
	}
}
