package strategy

import (
	"math"
	"math/rand"

	"github.com/toolmill/camstrat/pkg/features"
)

// Strategy is the discrete toolpath choice.
type Strategy string

const (
	// StrategyRaster machines in parallel passes at a hatch angle.
	StrategyRaster Strategy = "raster"
	// StrategyWaterline machines in constant-Z contours.
	StrategyWaterline Strategy = "waterline"
)

// Decision thresholds on the extracted ratios. A part is waterline terrain
// when a large share of its area is steep, or moderately steep with deep
// pockets relative to its height.
const (
	steepWaterline      = 0.35
	steepDepthWaterline = 0.22
	depthWaterline      = 0.45

	deepPocketDepth = 0.60
	deepPocketSteep = 0.18
	deepPocketScale = 0.85

	waterlineStepLow  = 0.18
	waterlineStepHigh = 0.32
	rasterStepLow     = 0.40
	rasterStepHigh    = 0.65
)

// Params configures a labeling call. Rand is used only to jitter continuous
// parameters (step-over, fallback hatch angle) within an already-decided
// strategy; it never changes the discrete decision, so labels for a fixed
// feature vector stay analytically reproducible. A nil Rand falls back to a
// fixed-seed source.
type Params struct {
	ToolDiameterMM float64
	Rand           *rand.Rand
}

func (p Params) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.New(rand.NewSource(0))
}

// Label is the strategy recommendation for one part.
type Label struct {
	Strategy   Strategy
	AngleDeg   float64 // in [0,180); fixed 0 for waterline
	StepOverMM float64
	Confidence float64 // 1 - |0.5 - flat_ratio|; a separation proxy, not a probability
}

// Choose maps extracted features to a strategy label.
//
// Waterline when steep_ratio > 0.35, or steep_ratio > 0.22 with pocket depth
// above 45% of the part height; raster otherwise, with the hatch angle from
// EstimateRasterAngle and a uniform random fallback when no orientation
// signal exists. Step-over is sampled within a band of the tool diameter,
// tightened for steep terrain and reduced 15% for deep pockets with steep
// walls.
func Choose(f *features.Features, stats *features.FaceStats, p Params) Label {
	rng := p.rng()

	steep := f.SteepAreaRatio
	zExtent := math.Max(f.BBox.Z, 1e-3)
	depthRatio := f.PocketDepth / zExtent

	label := Label{
		Confidence: 1.0 - math.Abs(0.5-f.FlatAreaRatio),
	}

	if steep > steepWaterline || (steep > steepDepthWaterline && depthRatio > depthWaterline) {
		label.Strategy = StrategyWaterline
		label.AngleDeg = 0
		label.StepOverMM = sampleUniform(rng,
			p.ToolDiameterMM*waterlineStepLow,
			p.ToolDiameterMM*waterlineStepHigh)
		return label
	}

	label.Strategy = StrategyRaster
	angle := EstimateRasterAngle(stats)
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		angle = sampleUniform(rng, 0, 180)
	}
	label.AngleDeg = math.Mod(angle, 180.0)

	step := sampleUniform(rng, p.ToolDiameterMM*rasterStepLow, p.ToolDiameterMM*rasterStepHigh)
	if depthRatio > deepPocketDepth && steep > deepPocketSteep {
		step *= deepPocketScale
	}
	label.StepOverMM = step
	return label
}

// Rounded returns a copy of the label with the precision of the external
// contract: angle to 2 decimals, step-over and confidence to 3.
func (l Label) Rounded() Label {
	return Label{
		Strategy:   l.Strategy,
		AngleDeg:   roundTo(l.AngleDeg, 2),
		StepOverMM: roundTo(l.StepOverMM, 3),
		Confidence: roundTo(l.Confidence, 3),
	}
}

func sampleUniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
