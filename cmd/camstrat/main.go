package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolmill/camstrat/internal/config"
	"github.com/toolmill/camstrat/internal/logger"
	"github.com/toolmill/camstrat/version"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "camstrat",
	Short: "Geometry-driven CAM strategy labeling toolkit",
	Long: `camstrat analyzes triangulated parts and recommends a machining strategy.
It extracts a fixed-order geometric feature vector from STL meshes, derives
raster/waterline labels with hatch angle and step-over, batch-labels datasets
for model training, and verifies extractor conformance against frozen
reference fixtures.`,
	Version: version.GetVersion(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a camstrat.yaml config file")
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
