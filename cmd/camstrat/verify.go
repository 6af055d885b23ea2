package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toolmill/camstrat/pkg/dataset"
)

var verifyTolerance float64

var verifyCmd = &cobra.Command{
	Use:   "verify [fixtures.json]",
	Short: "Check extractor output against frozen reference fixtures",
	Long: `Re-extract features from the meshes named in a conformance fixture file and
compare each vector entry with the pinned reference values. Mesh paths in the
fixture file are resolved relative to it.`,
	Args: cobra.ExactArgs(1),
	Run:  runVerify,
}

func init() {
	verifyCmd.Flags().Float64Var(&verifyTolerance, "tolerance", dataset.DefaultTolerance, "absolute per-entry tolerance")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	fixturePath := args[0]

	cases, err := dataset.LoadReferences(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}
	if len(cases) == 0 {
		fmt.Fprintf(os.Stderr, "Error: fixture file %s contains no cases\n", fixturePath)
		os.Exit(1)
	}

	baseDir := filepath.Dir(fixturePath)
	failed := 0
	for _, rc := range cases {
		mismatches, err := dataset.CheckCase(baseDir, rc, verifyTolerance)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking case %s: %v\n", rc.Name, err)
			os.Exit(1)
		}
		if len(mismatches) == 0 {
			fmt.Printf("ok   %s\n", rc.Name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", rc.Name)
		for _, m := range mismatches {
			fmt.Printf("     %s\n", m)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d cases failed\n", failed, len(cases))
		os.Exit(1)
	}
	fmt.Printf("\nAll %d cases agree within %g\n", len(cases), verifyTolerance)
}
