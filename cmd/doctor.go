package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// doctorCheck is one configuration prerequisite.
type doctorCheck struct {
	name string
	ok   bool
	hint string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that required credentials and settings are configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		checks := []doctorCheck{
			{"anthropic.key", cfg.Anthropic.Key != "", "set VIABILITY_ANTHROPIC_KEY"},
			{"serper.key", cfg.Serper.Key != "", "set VIABILITY_SERPER_KEY"},
			{"apify.token", cfg.Apify.Token != "", "set VIABILITY_APIFY_TOKEN"},
			{"anthropic.model", cfg.Anthropic.Model != "", "set VIABILITY_ANTHROPIC_MODEL"},
			{"server.port", cfg.Server.Port > 0, "set VIABILITY_SERVER_PORT"},
		}

		failed := 0
		for _, c := range checks {
			status := "ok"
			if !c.ok {
				status = "MISSING"
				failed++
			}
			fmt.Printf("%-20s %-8s", c.name, status)
			if !c.ok {
				fmt.Printf(" (%s)", c.hint)
			}
			fmt.Println()
		}

		if failed > 0 {
			return eris.Errorf("doctor: %d check(s) failed", failed)
		}
		fmt.Println("all checks passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
