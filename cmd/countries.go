package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/viability-cli/internal/model"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List supported target markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range model.Countries() {
			fmt.Printf("%-8s %-16s currency=%s marketplace=amazon.%s\n",
				c.Key, c.FullName, c.CurrencySymbol, c.TLD)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
