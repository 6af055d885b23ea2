package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/mesh"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract the geometric feature vector from an STL file",
	Long: `Load a triangulated part, repair trivial defects, and print the fixed-order
feature vector along with the individual geometric statistics.`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	filename := args[0]

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

	fmt.Println("Geometric Features")
	fmt.Println("==================")
	if m.Name != "" {
		fmt.Printf("Name: %s\n", m.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Vertices: %d\n", m.VertexCount())
	fmt.Printf("  Faces: %d (valid: %d)\n\n", m.TriangleCount(), len(stats.Normals))

	fmt.Println("Global Geometry:")
	fmt.Printf("  Bounding Box: %.6f x %.6f x %.6f mm\n", f.BBox.X, f.BBox.Y, f.BBox.Z)
	fmt.Printf("  Surface Area: %.6f mm^2\n", f.SurfaceArea)
	fmt.Printf("  Volume: %.6f mm^3\n", f.Volume)
	fmt.Printf("  Pocket Depth: %.6f mm\n\n", f.PocketDepth)

	fmt.Println("Slope Histogram (area fractions):")
	for i := 0; i < features.SlopeBinCount; i++ {
		fmt.Printf("  %5.1f-%5.1f deg: %.6f\n",
			features.SlopeBinBoundariesDeg[i], features.SlopeBinBoundariesDeg[i+1], f.SlopeHistogram[i])
	}
	fmt.Println()

	fmt.Println("Surface Character:")
	fmt.Printf("  Mean Curvature: %.6f rad\n", f.MeanCurvature)
	fmt.Printf("  Curvature Variance: %.6f rad^2\n", f.CurvatureVariance)
	fmt.Printf("  Flat Area Ratio: %.6f\n", f.FlatAreaRatio)
	fmt.Printf("  Steep Area Ratio: %.6f\n\n", f.SteepAreaRatio)

	fmt.Println("Feature Vector:")
	names := features.Names()
	for i, value := range f.Vector() {
		fmt.Printf("  [%2d] %-20s %.6f\n", i, names[i], value)
	}
}
