package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/renderers/vanilla"
)

type renderFlags struct {
	values       string
	out          string
	theme        string
	variant      string
	action       string
	inlineStyles bool
	showErrors   bool
}

func newRenderCommand(a *app) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render <audit-id>",
		Short: "Render an audit form as HTML",
		Long:  "Opens the form, applies optional values and writes its current state as an HTML form. Nothing is submitted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, args[0], flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.values, "values", "", "Values file (JSON or YAML) applied before rendering")
	f.StringVar(&flags.out, "out", "", "Write the HTML to this file instead of stdout")
	f.StringVar(&flags.theme, "theme", "", "Theme name (defaults to the built-in theme)")
	f.StringVar(&flags.variant, "variant", "", "Theme variant, e.g. dark")
	f.StringVar(&flags.action, "action", "", "Form action URL")
	f.BoolVar(&flags.inlineStyles, "inline-styles", false, "Embed the default stylesheet in the output")
	f.BoolVar(&flags.showErrors, "show-errors", false, "Mark every field touched so validation errors are shown")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, auditID string, flags renderFlags) error {
	ctx := cmd.Context()

	values, err := readValues(flags.values)
	if err != nil {
		return codeError(3, "%s", err)
	}

	options := []vanilla.Option{
		vanilla.WithThemeSelector(vanilla.NewThemes(vanilla.DefaultManifest()), flags.theme, flags.variant),
		vanilla.WithAction(flags.action),
		vanilla.WithLogger(a.logger),
	}
	if flags.inlineStyles {
		options = append(options, vanilla.WithDefaultStyles())
	}
	r, err := vanilla.New(options...)
	if err != nil {
		return codeError(3, "%s", err)
	}

	h, err := a.host(audit.DiscardSink)
	if err != nil {
		return err
	}
	view, err := h.Open(ctx, auditID)
	if err != nil {
		return openError(auditID, err)
	}
	defer view.Close()

	m := view.Manager()
	if err := audit.ApplyValues(m, values); err != nil {
		return codeError(3, "%s", err)
	}
	if flags.showErrors {
		for _, key := range m.Sections() {
			m.TouchAll(key)
		}
	}

	html, err := r.Render(ctx, view)
	if err != nil {
		return codeError(1, "%s", err)
	}
	if flags.out == "" {
		_, err = a.out.Write(html)
		return err
	}
	if err := os.WriteFile(flags.out, html, 0o644); err != nil {
		return codeError(1, "write %s: %s", flags.out, err)
	}
	fmt.Fprintf(a.errOut, "wrote %s\n", flags.out)
	return nil
}
