package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atelierhq/studio-bfa-go/internal/config"
	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagIDs []string

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute and store the spent total of projects",
	Long: "Recomputes each project's spend from its financial records and material usage and " +
		"stores it on the project. Per-project failures are reported, not fatal.",
	RunE: runRecompute,
}

func init() {
	recomputeCmd.Flags().StringSliceVar(&flagIDs, "ids", nil, "Project ids (default: every project)")
	rootCmd.AddCommand(recomputeCmd)
}

func runRecompute(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	logger := observability.NewLogger(cfg.LogLevel, "studio-bfa")
	defer logger.Sync()

	a := newApp(cfg, logger)
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = auth.AsService(ctx)

	results, err := a.services.Costs.RecomputeAllAndPersist(ctx, flagIDs)
	if err != nil {
		logger.Error("recompute aborted", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		status := "stored"
		if !r.Persisted {
			status = "not stored: " + r.PersistError
			failed++
		}
		degraded := ""
		if r.Spend.Degraded() {
			degraded = " (degraded)"
		}
		fmt.Fprintf(out, "%-24s %12.2f%s  %s\n", r.Spend.ProjectID, r.Spend.TotalSpent.Float64(), degraded, status)
	}
	fmt.Fprintf(out, "\n%d projects, %d stored, %d failed\n", len(results), len(results)-failed, failed)
	return nil
}
