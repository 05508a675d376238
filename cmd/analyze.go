package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeProduct string
	analyzeCountry string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the commercial viability of a product in a target market",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initAnalyst("analyze")
		if err != nil {
			return err
		}

		result, err := a.Run(cmd.Context(), analyzeProduct, analyzeCountry)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		zap.L().Info("analysis finished",
			zap.String("product", result.Product),
			zap.String("verdict", result.Verdict.VerdictTag),
			zap.Float64("final_score", result.Verdict.FinalScore),
			zap.Int("confidence", result.Verdict.ConfidenceScore),
		)

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeProduct, "product", "", "product name (required)")
	analyzeCmd.Flags().StringVar(&analyzeCountry, "country", "INDIA", "target market key")
	_ = analyzeCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(analyzeCmd)
}
