// Package main is a load-test client that hammers the sell endpoint and verifies the resulting stock.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abgdnv/inventory/internal/loadtest"
	"github.com/abgdnv/inventory/internal/platform/bootstrap"
	"github.com/spf13/cobra"
)

var errInconsistent = errors.New("stock invariants violated")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts loadtest.Options
	var logLevel string

	cmd := &cobra.Command{
		Use:          "loadtest",
		Short:        "Fire concurrent sales at one product and check that the stock adds up",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := bootstrap.NewLogger(logLevel)
			logger.Info("starting load test", "url", opts.BaseURL, "product", opts.ProductID,
				"requests", opts.Requests, "concurrency", opts.Concurrency)

			report, err := loadtest.NewRunner(opts, logger).Run(cmd.Context())
			if err != nil {
				logger.Error("load test failed", "error", err)
				return err
			}
			loadtest.Render(cmd.OutOrStdout(), report)
			if !report.Consistent() {
				logger.Error("inconsistent result", slog.Int("accepted", report.Accepted),
					slog.Int("initial", int(report.InitialStock)), slog.Int("final", int(report.FinalStock)))
				return errInconsistent
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.BaseURL, "url", "http://localhost:3000", "base URL of the inventory API")
	flags.Int64Var(&opts.ProductID, "product", 1, "id of the product to sell")
	flags.IntVarP(&opts.Requests, "requests", "n", 100, "number of sell requests")
	flags.IntVarP(&opts.Concurrency, "concurrency", "c", 20, "maximum requests in flight")
	flags.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}
