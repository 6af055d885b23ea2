package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toolmill/camstrat/internal/logger"
	"github.com/toolmill/camstrat/pkg/dataset"
)

var (
	datasetOut          string
	datasetSeed         int64
	datasetTrainRatio   float64
	datasetWorkers      int
	datasetMaterial     string
	datasetToolDiameter float64
)

var datasetCmd = &cobra.Command{
	Use:   "dataset [input-dir]",
	Short: "Label a directory of STL files into a training dataset",
	Long: `Label every STL file in a directory and write per-sample metadata records
plus shuffled train/val manifests. Samples that fail to load or extract are
skipped and reported; one broken mesh never aborts the batch.`,
	Args: cobra.ExactArgs(1),
	Run:  runDataset,
}

func init() {
	datasetCmd.Flags().StringVarP(&datasetOut, "out", "o", "dataset", "output directory")
	datasetCmd.Flags().Int64Var(&datasetSeed, "seed", 0, "base seed for jitter and split (default from config)")
	datasetCmd.Flags().Float64Var(&datasetTrainRatio, "train-ratio", 0, "train split fraction (default from config)")
	datasetCmd.Flags().IntVar(&datasetWorkers, "workers", 0, "worker count, 0 for one per CPU (default from config)")
	datasetCmd.Flags().StringVar(&datasetMaterial, "material", "", "stock material recorded in metadata (default from config)")
	datasetCmd.Flags().Float64Var(&datasetToolDiameter, "tool-diameter", 0, "tool diameter in mm (default from config)")
	rootCmd.AddCommand(datasetCmd)
}

func runDataset(cmd *cobra.Command, args []string) {
	inputDir := args[0]

	seed := datasetSeed
	if !cmd.Flags().Changed("seed") {
		seed = cfg.Dataset.Seed
	}
	trainRatio := datasetTrainRatio
	if !cmd.Flags().Changed("train-ratio") {
		trainRatio = cfg.Dataset.TrainRatio
	}
	workers := datasetWorkers
	if !cmd.Flags().Changed("workers") {
		workers = cfg.Dataset.Workers
	}
	material := datasetMaterial
	if !cmd.Flags().Changed("material") {
		material = cfg.Dataset.Material
	}
	diameter := datasetToolDiameter
	if !cmd.Flags().Changed("tool-diameter") {
		diameter = cfg.Tool.DiameterMM
	}

	paths, err := collectMeshes(inputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning input directory: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no STL files found in %s\n", inputDir)
		os.Exit(1)
	}

	if err := os.MkdirAll(datasetOut, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	logger.Log.Info("labeling dataset",
		zap.String("input", inputDir),
		zap.String("out", datasetOut),
		zap.Int("samples", len(paths)),
		zap.Int64("seed", seed))

	runner := &dataset.Runner{
		ToolDiameterMM: diameter,
		Material:       material,
		BaseSeed:       seed,
		Workers:        workers,
		Log:            logger.Log,
	}
	results := runner.Run(paths)

	var ids []string
	skipped := 0
	for _, result := range results {
		if result.Err != nil {
			skipped++
			continue
		}
		id := sampleID(result.Path)
		if err := result.Meta.Write(filepath.Join(datasetOut, id+".meta.json")); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing metadata: %v\n", err)
			os.Exit(1)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "Error: all %d samples failed\n", len(paths))
		os.Exit(1)
	}

	train, val := dataset.SplitManifest(ids, trainRatio, seed)
	if err := dataset.WriteManifest(filepath.Join(datasetOut, "train_manifest.json"), train); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing train manifest: %v\n", err)
		os.Exit(1)
	}
	if err := dataset.WriteManifest(filepath.Join(datasetOut, "val_manifest.json"), val); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing val manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Labeled %d samples (%d skipped): %d train, %d val\n",
		len(ids), skipped, len(train), len(val))
	fmt.Printf("Output written to %s\n", datasetOut)
}

// collectMeshes returns the STL files directly inside dir, sorted by name so
// sample indices and seeds are stable across runs.
func collectMeshes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".stl") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func sampleID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
