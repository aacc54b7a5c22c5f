package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kubev2v/pipeline-verifier/internal/app"
	"github.com/kubev2v/pipeline-verifier/internal/report"
	"github.com/kubev2v/pipeline-verifier/internal/services"
	"github.com/kubev2v/pipeline-verifier/internal/store"
	"github.com/kubev2v/pipeline-verifier/internal/store/migrations"
	"github.com/kubev2v/pipeline-verifier/internal/verify"
)

func (c *cli) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Provision the fleet, run every check and tear the fleet down",
		Long:  `Provision the fleet, run every check and tear the fleet down.

Before the event log is counted the run waits for the pipeline to drain. The default
--settle-mode stable polls the event log until its line count stops changing, giving
up after --settle-max-wait. Use --settle-mode fixed to wait a constant --settle-period
(3s by default) instead, as the pipeline's own test suite does.`,
		Args:  cobra.NoArgs,
		RunE:  c.runVerify,
	}
}

func (c *cli) runVerify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	h, err := app.New(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}

	var history *services.HistoryService
	if c.cfg.Store.Path != "" {
		st, err := openStore(ctx, c.cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		history = services.NewHistoryService(st)
	}

	runner := verify.NewRunner(h.Session, c.cfg.Runner.Workers, c.log)
	run, err := services.NewVerificationService(runner, history, c.log).Verify(ctx)
	if run.ID != "" {
		report.Run(cmd.OutOrStdout(), run)
	}
	if err != nil {
		return err
	}
	if !run.Passed() {
		return errChecksFailed
	}
	return nil
}

func openStore(ctx context.Context, path string) (*store.Store, error) {
	db, err := store.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store.NewStore(db), nil
}
