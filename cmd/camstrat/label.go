package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolmill/camstrat/pkg/dataset"
	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/mesh"
	"github.com/toolmill/camstrat/pkg/strategy"
)

var (
	labelToolDiameter float64
	labelSeed         int64
	labelJSON         bool
)

var labelCmd = &cobra.Command{
	Use:   "label [file]",
	Short: "Recommend a machining strategy for an STL file",
	Long: `Extract features from a part and derive a strategy label: raster or
waterline, hatch angle, step-over, and a confidence score.`,
	Args: cobra.ExactArgs(1),
	Run:  runLabel,
}

func init() {
	labelCmd.Flags().Float64Var(&labelToolDiameter, "tool-diameter", 0, "tool diameter in mm (default from config)")
	labelCmd.Flags().Int64Var(&labelSeed, "seed", 0, "jitter seed (default from config)")
	labelCmd.Flags().BoolVar(&labelJSON, "json", false, "print the full metadata record as JSON")
	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, args []string) {
	filename := args[0]

	diameter := labelToolDiameter
	if !cmd.Flags().Changed("tool-diameter") {
		diameter = cfg.Tool.DiameterMM
	}
	seed := labelSeed
	if !cmd.Flags().Changed("seed") {
		seed = cfg.Dataset.Seed
	}

	m, err := mesh.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}

	f, stats, err := features.Extract(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting features: %v\n", err)
		os.Exit(1)
	}

	label := strategy.Choose(f, stats, strategy.Params{
		ToolDiameterMM: diameter,
		Rand:           rand.New(rand.NewSource(seed)),
	})

	if labelJSON {
		meta := dataset.BuildMeta(f, label, cfg.Dataset.Material, diameter, seed)
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding record: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	rounded := label.Rounded()

	fmt.Println("Strategy Recommendation")
	fmt.Println("=======================")
	fmt.Printf("File: %s\n\n", filename)

	fmt.Printf("Strategy: %s\n", rounded.Strategy)
	fmt.Printf("Hatch Angle: %.2f deg\n", rounded.AngleDeg)
	fmt.Printf("Step Over: %.3f mm (tool %.1f mm)\n", rounded.StepOverMM, diameter)
	fmt.Printf("Confidence: %.3f\n\n", rounded.Confidence)

	fmt.Println("Decision Inputs:")
	fmt.Printf("  Steep Area Ratio: %.4f\n", f.SteepAreaRatio)
	fmt.Printf("  Flat Area Ratio: %.4f\n", f.FlatAreaRatio)
	fmt.Printf("  Pocket Depth Ratio: %.4f\n", f.PocketDepth/math.Max(f.BBox.Z, 1e-3))
}
