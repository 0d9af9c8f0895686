package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/renderers/tui"
)

func newFillCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <audit-id>",
		Short: "Fill an audit form interactively and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, a, args[0], tui.New(tui.WithLogger(a.logger)))
		},
	}
}

func runFill(cmd *cobra.Command, a *app, auditID string, filler *tui.Filler) error {
	if err := a.requireTenant(); err != nil {
		return err
	}
	ctx := cmd.Context()

	out, closeSink, err := a.sink()
	if err != nil {
		return codeError(3, "%s", err)
	}
	defer func() { _ = closeSink() }()

	h, err := a.host(out)
	if err != nil {
		return err
	}
	view, err := h.Open(ctx, auditID)
	if err != nil {
		return openError(auditID, err)
	}
	defer view.Close()

	for {
		if err := filler.Fill(ctx, view); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				return codeError(130, "aborted")
			}
			return err
		}
		payload, err := view.Submit(ctx)
		if err == nil {
			return writeJSON(a.out, payload)
		}

		var invalid *audit.InvalidError
		if !errors.As(err, &invalid) {
			return codeError(1, "%s", err)
		}
		if err := filler.ShowReport(ctx, invalid.Report); err != nil {
			return err
		}
		again, err := filler.Confirm(ctx, "Edit the form again?")
		if err != nil {
			return err
		}
		if !again {
			return codeError(2, "%s", invalid)
		}
	}
}
