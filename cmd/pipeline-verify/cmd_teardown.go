package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubev2v/pipeline-verifier/internal/app"
)

func (c *cli) newTeardownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teardown",
		Short: "Stop every running node, prune them and remove the event log",
		Args:  cobra.NoArgs,
		RunE:  c.runTeardown,
	}
}

func (c *cli) runTeardown(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	h, err := app.New(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rep, teardownErr := h.Controller.Teardown(ctx)
	fmt.Fprintf(out, "Stopped: %s\n", joinOrNone(rep.Stopped))
	fmt.Fprintf(out, "Pruned:  %s\n", joinOrNone(rep.Pruned))

	removed, err := h.Checker.RemoveOutput()
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(out, "Removed: %s\n", h.Checker.EventLogPath())
	}
	return teardownErr
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
