package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "viability-cli",
	Short: "Product commercial viability scoring pipeline",
	Long:  "Calibrates price guardrails, collects demand/sourcing/tax/price signals, computes unit economics, and synthesizes a scored market verdict.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
