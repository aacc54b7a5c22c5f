package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/pipeline-verifier/internal/report"
	"github.com/kubev2v/pipeline-verifier/internal/services"
)

var errNoStore = errors.New("run history is disabled: set --store-path")

func (c *cli) newHistoryCmd() *cobra.Command {
	var params services.HistoryListParams

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past verification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runHistory(cmd, params)
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&params.Limit, "limit", 20, "Maximum number of runs to show (0 shows all)")
	f.Uint64Var(&params.Offset, "offset", 0, "Number of runs to skip")
	f.BoolVar(&params.OnlyFailed, "failed", false, "Only show runs that did not pass")
	return cmd
}

func (c *cli) runHistory(cmd *cobra.Command, params services.HistoryListParams) error {
	if c.cfg.Store.Path == "" {
		return errNoStore
	}
	ctx := cmd.Context()

	st, err := openStore(ctx, c.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := services.NewHistoryService(st).List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	report.History(cmd.OutOrStdout(), result.Runs, result.Total)
	return nil
}

func (c *cli) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the checks of one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
}

func (c *cli) runShow(cmd *cobra.Command, args []string) error {
	if c.cfg.Store.Path == "" {
		return errNoStore
	}
	ctx := cmd.Context()

	st, err := openStore(ctx, c.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := services.NewHistoryService(st).Get(ctx, args[0])
	if err != nil {
		return err
	}
	report.Run(cmd.OutOrStdout(), *run)
	return nil
}
