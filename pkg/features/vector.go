package features

// CoreCount is the number of entries in the packed feature vector.
const CoreCount = 5 + SlopeBinCount + 5

// ModelInputCount is the length of the vector fed to a trained model: the
// core features plus the step-over hint and tool diameter channels.
const ModelInputCount = CoreCount + 2

// Vector packs the features in the fixed field order shared by every
// consumer:
//
//	[bbox_x, bbox_y, bbox_z, surface_area, volume,
//	 slope_bin_0..slope_bin_4,
//	 mean_curvature, curvature_variance,
//	 flat_area_ratio, steep_area_ratio, pocket_depth]
func (f *Features) Vector() []float64 {
	v := make([]float64, 0, CoreCount)
	v = append(v, f.BBox.X, f.BBox.Y, f.BBox.Z, f.SurfaceArea, f.Volume)
	v = append(v, f.SlopeHistogram[:]...)
	v = append(v,
		f.MeanCurvature,
		f.CurvatureVariance,
		f.FlatAreaRatio,
		f.SteepAreaRatio,
		f.PocketDepth,
	)
	return v
}

// AppendToolChannels extends a core feature vector with the step-over hint
// and tool diameter, in that order, producing the model input layout.
func AppendToolChannels(vector []float64, stepOverMM, toolDiameterMM float64) []float64 {
	return append(vector, stepOverMM, toolDiameterMM)
}

// Names returns the documented name of every model input channel, aligned
// with the packing order of Vector plus the two tool channels.
func Names() []string {
	return []string{
		"bbox_x", "bbox_y", "bbox_z",
		"surface_area", "volume",
		"slope_bin_0", "slope_bin_1", "slope_bin_2", "slope_bin_3", "slope_bin_4",
		"mean_curvature", "curvature_variance",
		"flat_area_ratio", "steep_area_ratio",
		"pocket_depth",
		"step_over_hint", "tool_diameter",
	}
}
