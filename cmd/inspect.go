package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"mercadolivre-sync/config"
	"mercadolivre-sync/extractor"
	"mercadolivre-sync/internal/app"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <url>",
		Short: "Show which strategy produced each field of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a := app.New(cfg, app.NewLogger(verbose))
			defer a.Close()

			result, err := a.Scraper.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("=== %s ===\n", result.Product.SourceURL)
			for _, d := range result.Diagnostics {
				fmt.Printf("  %s\n", d)
			}
			missing := extractor.Missing(result.Diagnostics)
			fmt.Printf("Fields found: %d/%d\n", len(result.Diagnostics)-len(missing), len(result.Diagnostics))
			return nil
		},
	}
}
