package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"mercadolivre-sync/config"
	"mercadolivre-sync/internal/app"
)

var verbose bool

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "mlsync",
		Short:         "Keep the product catalog in sync with Mercado Livre listings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	root.AddCommand(scrapeCmd(), syncCmd(), inspectCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func scrapeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extract one listing and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(verbose)
			a := app.New(cfg, logger)
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Fetch.Timeout*time.Duration(cfg.Fetch.MaxRetries+1))
			defer cancel()

			product, err := a.Scraper.Scrape(ctx, args[0])
			if err != nil {
				return err
			}

			jsonData, err := json.MarshalIndent(product, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal product: %w", err)
			}
			if output != "" {
				if err := os.WriteFile(output, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				logger.Infof("Product written to: %s", output)
				return nil
			}
			fmt.Println(string(jsonData))
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output file path (default: stdout)")
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Verify every catalog entry and write back the changed fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			a := app.New(cfg, app.NewLogger(verbose))
			defer a.Close()

			report, err := a.Sync.SynchronizeAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(report)
			return nil
		},
	}
}
