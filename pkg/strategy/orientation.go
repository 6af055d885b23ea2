// Package strategy derives a machining strategy label (raster or waterline,
// hatch angle, step-over) from extracted mesh features. The discrete decision
// is a pure function of the features; randomness only jitters continuous
// parameters inside an already-decided strategy.
package strategy

import (
	"math"

	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/geometry"
)

// planarEps is the minimum XY length a face normal needs to contribute an
// orientation signal. Near-horizontal and near-vertical faces project to
// almost nothing in the machining plane and are skipped.
const planarEps = 1e-5

// EstimateRasterAngle recommends a hatch angle in degrees from the dominant
// planar direction of the face normals: an area-weighted PCA over the XY
// components of every usable normal. The returned angle follows atan2 of the
// principal eigenvector and is NaN when no face contributes a usable planar
// normal (a purely vertical or purely horizontal part); callers must
// substitute a fallback angle rather than propagate NaN.
func EstimateRasterAngle(stats *features.FaceStats) float64 {
	if stats == nil {
		return math.NaN()
	}

	var vectors []geometry.Vector2
	var weights []float64
	for i, n := range stats.Normals {
		xy := n.XY()
		if xy.Length() <= planarEps {
			continue
		}
		vectors = append(vectors, xy)
		weights = append(weights, stats.Areas[i])
	}
	if len(vectors) == 0 {
		return math.NaN()
	}

	totalWeight := 0.0
	mean := geometry.Vector2{}
	for i, vec := range vectors {
		mean = mean.Add(vec.Mul(weights[i]))
		totalWeight += weights[i]
	}
	mean = mean.Mul(1.0 / totalWeight)

	// Area-weighted 2x2 covariance of the centered vectors.
	var xx, xy, yy float64
	for i, vec := range vectors {
		d := vec.Sub(mean)
		w := weights[i]
		xx += w * d.X * d.X
		xy += w * d.X * d.Y
		yy += w * d.Y * d.Y
	}
	xx /= totalWeight
	xy /= totalWeight
	yy /= totalWeight

	principal := principalAxis(xx, xy, yy)
	angle := principal.AngleDeg()
	if angle < 0 {
		angle += 180.0
	}
	return angle
}

// principalAxis returns the eigenvector of the symmetric matrix
// [[xx, xy], [xy, yy]] with the largest eigenvalue.
func principalAxis(xx, xy, yy float64) geometry.Vector2 {
	if math.Abs(xy) < 1e-12 {
		// Diagonal matrix: the dominant axis is whichever variance is larger.
		if xx >= yy {
			return geometry.NewVector2(1, 0)
		}
		return geometry.NewVector2(0, 1)
	}
	lambda := (xx+yy)/2.0 + math.Sqrt(((xx-yy)/2.0)*((xx-yy)/2.0)+xy*xy)
	return geometry.NewVector2(xy, lambda-xx)
}
