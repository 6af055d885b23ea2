package strategy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/geometry"
)

const toolDiameter = 6.0

func params(seed int64) Params {
	return Params{
		ToolDiameterMM: toolDiameter,
		Rand:           rand.New(rand.NewSource(seed)),
	}
}

func steepFeatures(steepRatio, depthRatio float64) *features.Features {
	return &features.Features{
		BBox:           geometry.NewVector3(100, 80, 40),
		FlatAreaRatio:  0.3,
		SteepAreaRatio: steepRatio,
		PocketDepth:    depthRatio * 40,
	}
}

func TestChooseWaterlineForSteepPart(t *testing.T) {
	f := steepFeatures(0.40, 0.5)
	label := Choose(f, nil, params(7))

	if label.Strategy != StrategyWaterline {
		t.Fatalf("expected waterline, got %s", label.Strategy)
	}
	if label.AngleDeg != 0 {
		t.Errorf("waterline angle must be 0, got %v", label.AngleDeg)
	}
	if label.StepOverMM < 0.18*toolDiameter || label.StepOverMM > 0.32*toolDiameter {
		t.Errorf("step-over %v outside [%v, %v]", label.StepOverMM, 0.18*toolDiameter, 0.32*toolDiameter)
	}
}

func TestChooseWaterlineForModeratelySteepDeepPocket(t *testing.T) {
	// Below the hard steep threshold, but deep enough to tip the decision.
	label := Choose(steepFeatures(0.25, 0.5), nil, params(7))
	if label.Strategy != StrategyWaterline {
		t.Errorf("expected waterline for steep=0.25 depth=0.5, got %s", label.Strategy)
	}

	// Same steepness with a shallow pocket stays raster.
	label = Choose(steepFeatures(0.25, 0.2), nil, params(7))
	if label.Strategy != StrategyRaster {
		t.Errorf("expected raster for steep=0.25 depth=0.2, got %s", label.Strategy)
	}
}

func TestChooseRasterUsesOrientation(t *testing.T) {
	f := steepFeatures(0.10, 0.2)
	stats := &features.FaceStats{
		Normals: []geometry.Vector3{
			geometry.NewVector3(0, 0.8, 0.6),
			geometry.NewVector3(0, -0.8, 0.6),
		},
		Areas: []float64{1, 1},
	}

	label := Choose(f, stats, params(11))
	if label.Strategy != StrategyRaster {
		t.Fatalf("expected raster, got %s", label.Strategy)
	}
	if math.Abs(label.AngleDeg-90) > 1e-9 {
		t.Errorf("expected estimated angle 90, got %v", label.AngleDeg)
	}
	if label.StepOverMM < 0.40*toolDiameter || label.StepOverMM > 0.65*toolDiameter {
		t.Errorf("step-over %v outside raster band", label.StepOverMM)
	}
}

func TestChooseRasterFallbackAngleWhenNoSignal(t *testing.T) {
	f := steepFeatures(0.05, 0.1)

	label := Choose(f, nil, params(3))
	if label.Strategy != StrategyRaster {
		t.Fatalf("expected raster, got %s", label.Strategy)
	}
	if label.AngleDeg < 0 || label.AngleDeg >= 180 {
		t.Errorf("fallback angle %v outside [0,180)", label.AngleDeg)
	}
	if math.IsNaN(label.AngleDeg) {
		t.Error("NaN must never leak into a label")
	}
}

func TestChooseDeepPocketTightensRasterStepOver(t *testing.T) {
	// Raster decision, but deep pocket with some steep walls: the sampled
	// band shrinks by 15%.
	f := steepFeatures(0.20, 0.7)

	for seed := int64(0); seed < 50; seed++ {
		label := Choose(f, nil, params(seed))
		if label.Strategy != StrategyRaster {
			t.Fatalf("expected raster, got %s", label.Strategy)
		}
		low := 0.40 * toolDiameter * 0.85
		high := 0.65 * toolDiameter * 0.85
		if label.StepOverMM < low || label.StepOverMM > high {
			t.Errorf("seed %d: step-over %v outside reduced band [%v, %v]", seed, label.StepOverMM, low, high)
		}
	}
}

func TestJitterNeverFlipsDecision(t *testing.T) {
	f := steepFeatures(0.40, 0.5)
	first := Choose(f, nil, params(1))
	for seed := int64(2); seed < 30; seed++ {
		label := Choose(f, nil, params(seed))
		if label.Strategy != first.Strategy {
			t.Fatalf("seed %d flipped the decision to %s", seed, label.Strategy)
		}
		if label.AngleDeg != first.AngleDeg {
			t.Errorf("seed %d changed the waterline angle to %v", seed, label.AngleDeg)
		}
		if label.Confidence != first.Confidence {
			t.Errorf("seed %d changed confidence to %v", seed, label.Confidence)
		}
	}
}

func TestChooseReproducibleForFixedSeed(t *testing.T) {
	f := steepFeatures(0.10, 0.2)
	a := Choose(f, nil, params(42))
	b := Choose(f, nil, params(42))
	if a != b {
		t.Errorf("same seed produced different labels: %+v vs %+v", a, b)
	}
}

func TestConfidence(t *testing.T) {
	f := steepFeatures(0.40, 0.5)
	f.FlatAreaRatio = 0.5
	if label := Choose(f, nil, params(1)); label.Confidence != 1.0 {
		t.Errorf("flat ratio 0.5 should give confidence 1.0, got %v", label.Confidence)
	}

	f.FlatAreaRatio = 0.9
	label := Choose(f, nil, params(1))
	if math.Abs(label.Confidence-0.6) > 1e-12 {
		t.Errorf("flat ratio 0.9 should give confidence 0.6, got %v", label.Confidence)
	}
}

func TestLabelRounded(t *testing.T) {
	label := Label{
		Strategy:   StrategyRaster,
		AngleDeg:   33.33333,
		StepOverMM: 2.71828,
		Confidence: 0.987654,
	}
	r := label.Rounded()
	if r.AngleDeg != 33.33 {
		t.Errorf("angle: expected 33.33, got %v", r.AngleDeg)
	}
	if r.StepOverMM != 2.718 {
		t.Errorf("step-over: expected 2.718, got %v", r.StepOverMM)
	}
	if r.Confidence != 0.988 {
		t.Errorf("confidence: expected 0.988, got %v", r.Confidence)
	}
}
