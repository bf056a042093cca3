package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runSeed      uint64
	runOutputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the customer pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("seed") {
			cfg.Enrich.Seed = runSeed
		}
		if runOutputDir != "" {
			cfg.Export.OutputDir = runOutputDir
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("pipeline complete",
			zap.Int("total_fetched", result.TotalFetched),
			zap.Int("total_unique", result.TotalUnique),
			zap.Float64("average_quality_score", result.AverageQualityScore),
		)

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "enrichment RNG seed (default from config)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "artifact output directory (default from config)")
	rootCmd.AddCommand(runCmd)
}
