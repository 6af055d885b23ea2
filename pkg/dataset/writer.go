// Package dataset persists feature vectors and strategy labels as training
// metadata records, assembles train/val manifests, and checks extractor
// output against frozen reference fixtures so independent reimplementations
// of the feature math stay in agreement.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/strategy"
)

// FeatureVersion tags the feature layout written into metadata records.
// Consumers refuse records with an unknown version rather than guess the
// field order.
const FeatureVersion = "v2"

// DefaultMaterial is recorded when the caller does not specify stock.
const DefaultMaterial = "Aluminium 6061"

// LabelRecord is the serialized strategy label: angle to 2 decimals,
// step-over and confidence to 3.
type LabelRecord struct {
	Strategy   string  `json:"strategy"`
	AngleDeg   float64 `json:"angle_deg"`
	StepOverMM float64 `json:"step_over_mm"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// LabelMetrics carries the decision inputs alongside the label for auditing.
type LabelMetrics struct {
	SteepRatio       float64 `json:"steep_ratio"`
	FlatRatio        float64 `json:"flat_ratio"`
	PocketDepthRatio float64 `json:"pocket_depth_ratio"`
}

// MetaRecord is the per-sample metadata document. Feature values are rounded
// to 6 decimal places on write; the in-memory extractor output remains full
// precision.
type MetaRecord struct {
	BBox                  []float64    `json:"bbox"`
	Material              string       `json:"material"`
	ToolDiameterMM        float64      `json:"tool_diameter_mm"`
	FeatureVersion        string       `json:"feature_version"`
	Features              []float64    `json:"features_v2"`
	SlopeHistogram        []float64    `json:"slope_histogram"`
	CurvatureMeanRad      float64      `json:"curvature_mean_rad"`
	CurvatureVarianceRad2 float64      `json:"curvature_variance_rad2"`
	FlatAreaRatio         float64      `json:"flat_area_ratio"`
	SteepAreaRatio        float64      `json:"steep_area_ratio"`
	PocketDepthMM         float64      `json:"pocket_depth_mm"`
	Seed                  int64        `json:"seed"`
	Label                 LabelRecord  `json:"label"`
	LabelMetrics          LabelMetrics `json:"label_metrics"`
}

// BuildMeta assembles the metadata record for one sample.
func BuildMeta(f *features.Features, label strategy.Label, material string, toolDiameterMM float64, seed int64) *MetaRecord {
	if material == "" {
		material = DefaultMaterial
	}

	rounded := label.Rounded()
	zExtent := math.Max(f.BBox.Z, 1e-3)

	meta := &MetaRecord{
		BBox:                  roundSlice([]float64{f.BBox.X, f.BBox.Y, f.BBox.Z}, 3),
		Material:              material,
		ToolDiameterMM:        toolDiameterMM,
		FeatureVersion:        FeatureVersion,
		Features:              roundSlice(f.Vector(), 6),
		SlopeHistogram:        roundSlice(f.SlopeHistogram[:], 6),
		CurvatureMeanRad:      roundTo(f.MeanCurvature, 6),
		CurvatureVarianceRad2: roundTo(f.CurvatureVariance, 6),
		FlatAreaRatio:         roundTo(f.FlatAreaRatio, 6),
		SteepAreaRatio:        roundTo(f.SteepAreaRatio, 6),
		PocketDepthMM:         roundTo(f.PocketDepth, 6),
		Seed:                  seed,
		Label: LabelRecord{
			Strategy:   string(rounded.Strategy),
			AngleDeg:   rounded.AngleDeg,
			StepOverMM: rounded.StepOverMM,
			Source:     "heuristic",
			Confidence: rounded.Confidence,
		},
		LabelMetrics: LabelMetrics{
			SteepRatio:       roundTo(f.SteepAreaRatio, 4),
			FlatRatio:        roundTo(f.FlatAreaRatio, 4),
			PocketDepthRatio: roundTo(f.PocketDepth/zExtent, 4),
		},
	}
	return meta
}

// Write serializes the record as indented JSON.
func (m *MetaRecord) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode meta record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write meta record: %w", err)
	}
	return nil
}

// ReadMeta loads a metadata record back from disk.
func ReadMeta(path string) (*MetaRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read meta record: %w", err)
	}
	var meta MetaRecord
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode meta record: %w", err)
	}
	return &meta, nil
}

func roundSlice(values []float64, decimals int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = roundTo(v, decimals)
	}
	return out
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
