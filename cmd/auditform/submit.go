package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/form"
)

func newSubmitCommand(a *app) *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "submit <audit-id>",
		Short: "Apply values from a file and submit without prompting",
		Long:  "Values are a section → field → value document (JSON or YAML). Dynamic sections grow to fit row<N>_ keys. The submission is blocked unless every section is valid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, a, args[0], valuesPath)
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "Values file (JSON or YAML); empty submits the defaults")
	return cmd
}

func runSubmit(cmd *cobra.Command, a *app, auditID, valuesPath string) error {
	if err := a.requireTenant(); err != nil {
		return err
	}
	ctx := cmd.Context()

	values, err := readValues(valuesPath)
	if err != nil {
		return codeError(3, "%s", err)
	}

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

	if err := audit.ApplyValues(view.Manager(), values); err != nil {
		return codeError(3, "%s", err)
	}
	for key, warning := range view.Warnings() {
		fmt.Fprintf(a.errOut, "warning: %s: %s\n", key, warning)
	}

	payload, err := view.Submit(ctx)
	if err != nil {
		var invalid *audit.InvalidError
		if errors.As(err, &invalid) {
			if werr := writeJSON(a.errOut, invalid.Report); werr != nil {
				return werr
			}
			return codeError(2, "%s", invalid)
		}
		return codeError(1, "%s", err)
	}
	return writeJSON(a.out, payload)
}

func readValues(path string) (map[string]map[string]any, error) {
	values := map[string]map[string]any{}
	if path == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	switch form.FormatFromPath(path) {
	case form.FormatYAML:
		err = yaml.Unmarshal(data, &values)
	default:
		err = json.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
