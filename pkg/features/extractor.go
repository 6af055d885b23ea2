// Package features computes the fixed-order geometric feature vector that the
// dataset generator, the training simulator, and the runtime evaluator all
// share. The field order, bin boundaries, and epsilon choices here are an
// interoperability contract: every consumer reproduces these numbers
// bit-for-bit from the same mesh.
package features

import (
	"math"

	"github.com/toolmill/camstrat/pkg/geometry"
	"github.com/toolmill/camstrat/pkg/mesh"
)

// SlopeBinCount is the number of slope histogram bins.
const SlopeBinCount = 5

// SlopeBinBoundariesDeg are the histogram bin edges in degrees. They align
// with common machining breakpoints: 0-15° flats, 15-30° shallow walls, and
// so on. The upper edge of 90.1 keeps exactly-vertical faces inside the last
// bin. Bins are half-open [low, high): a slope of exactly 15.0° lands in the
// 15-30 bin.
var SlopeBinBoundariesDeg = [SlopeBinCount + 1]float64{0, 15, 30, 45, 60, 90.1}

const (
	flatSlopeDeg  = 15.0
	steepSlopeDeg = 60.0
)

// Features holds the global geometric descriptor of a mesh.
type Features struct {
	BBox              geometry.Vector3
	SurfaceArea       float64
	Volume            float64
	SlopeHistogram    [SlopeBinCount]float64
	MeanCurvature     float64
	CurvatureVariance float64
	FlatAreaRatio     float64
	SteepAreaRatio    float64
	PocketDepth       float64
}

// FaceStats carries the per-face geometry of valid (non-degenerate) faces,
// kept alongside the global features for consumers that need the raw
// distribution, such as the raster orientation estimator.
type FaceStats struct {
	Normals []geometry.Vector3
	Areas   []float64
}

// Extract computes the feature vector of a mesh.
//
// Degenerate faces (cross product magnitude <= mesh.Epsilon) contribute
// nothing to area, slope, or curvature statistics, but every face enters the
// signed volume integral, consistent with the divergence theorem. When the
// signed volume is non-finite or near zero the convex hull volume is
// substituted as an upper-bound approximation; for non-convex parts with
// self-intersections this can overstate the true volume, which is accepted
// behavior.
//
// Fails with mesh.ErrEmpty for empty input and mesh.ErrZeroArea when no face
// carries usable area.
func Extract(m *mesh.Mesh) (*Features, *FaceStats, error) {
	if m == nil || m.IsEmpty() {
		return nil, nil, mesh.ErrEmpty
	}

	bounds := m.Bounds()

	f := &Features{
		BBox:        bounds.Size(),
		PocketDepth: math.Max(bounds.Max.Z-bounds.Min.Z, 0),
	}
	stats := &FaceStats{}

	type validFace struct {
		face   [3]int
		normal geometry.Vector3
	}
	var valid []validFace

	var (
		surfaceArea  float64
		signedVolume float64
		slopeArea    [SlopeBinCount]float64
		flatArea     float64
		steepArea    float64
	)
	vertexNormals := make([]geometry.Vector3, m.VertexCount())

	for _, face := range m.Faces {
		p0 := m.Vertices[face[0]]
		p1 := m.Vertices[face[1]]
		p2 := m.Vertices[face[2]]

		// Every face enters the volume integral, valid or not.
		signedVolume += p0.Dot(p1.Cross(p2)) / 6.0

		cross := p1.Sub(p0).Cross(p2.Sub(p0))
		crossLen := cross.Length()
		if crossLen <= mesh.Epsilon {
			continue
		}

		area := 0.5 * crossLen
		normal := cross.Mul(1.0 / crossLen)

		surfaceArea += area
		slope := slopeDegrees(normal)
		slopeArea[slopeBinIndex(slope)] += area
		if slope < flatSlopeDeg {
			flatArea += area
		}
		if slope >= steepSlopeDeg {
			steepArea += area
		}

		for _, idx := range face {
			vertexNormals[idx] = vertexNormals[idx].Add(normal)
		}

		valid = append(valid, validFace{face: face, normal: normal})
		stats.Normals = append(stats.Normals, normal)
		stats.Areas = append(stats.Areas, area)
	}

	if surfaceArea <= mesh.Epsilon {
		return nil, nil, mesh.ErrZeroArea
	}

	for i := range vertexNormals {
		vertexNormals[i] = vertexNormals[i].Normalize()
	}

	// Curvature proxy: angle between each valid face normal and the averaged
	// normal at each of its vertices. Vertices with no valid incident face
	// keep a zero normal and are excluded.
	var curvature []float64
	for _, vf := range valid {
		for _, idx := range vf.face {
			vn := vertexNormals[idx]
			if vn.Length() <= mesh.Epsilon {
				continue
			}
			dot := clamp(vn.Dot(vf.normal), -1, 1)
			curvature = append(curvature, math.Acos(dot))
		}
	}
	f.MeanCurvature, f.CurvatureVariance = meanVariance(curvature)

	f.SurfaceArea = surfaceArea
	denom := math.Max(surfaceArea, 1e-9)
	for i := range slopeArea {
		f.SlopeHistogram[i] = slopeArea[i] / denom
	}
	f.FlatAreaRatio = clamp(flatArea/denom, 0, 1)
	f.SteepAreaRatio = clamp(steepArea/denom, 0, 1)

	if math.IsInf(signedVolume, 0) || math.IsNaN(signedVolume) || math.Abs(signedVolume) < mesh.Epsilon {
		f.Volume = geometry.ConvexHullVolume(m.Vertices)
	} else {
		f.Volume = math.Abs(signedVolume)
	}

	return f, stats, nil
}

// slopeDegrees returns the deviation of a unit normal from horizontal, in
// [0, 90]. The absolute z component makes up-facing and down-facing surfaces
// equivalent: machining cares about deviation from horizontal, not direction.
func slopeDegrees(normal geometry.Vector3) float64 {
	return math.Acos(clamp(math.Abs(normal.Z), 0, 1)) * 180.0 / math.Pi
}

// slopeBinIndex maps a slope to its half-open histogram bin.
func slopeBinIndex(slopeDeg float64) int {
	for i := 0; i < SlopeBinCount; i++ {
		if slopeDeg >= SlopeBinBoundariesDeg[i] && slopeDeg < SlopeBinBoundariesDeg[i+1] {
			return i
		}
	}
	return SlopeBinCount - 1
}

// meanVariance returns the population mean and variance of the samples, or
// zeros for an empty set. A perfectly flat mesh has no curvature samples and
// is valid.
func meanVariance(samples []float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(len(samples))

	varAccum := 0.0
	for _, s := range samples {
		diff := s - mean
		varAccum += diff * diff
	}
	return mean, varAccum / float64(len(samples))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
