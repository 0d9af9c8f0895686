package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "auditform",
		Short:         "Fill, submit and check plant audit forms",
		Long:          "auditform renders declarative audit forms into validated live forms, fills them from the terminal and hands complete submissions to the configured sink.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "Config file (defaults to $AUDITFORM_CONFIG)")
	f.StringVar(&a.assets, "assets", "", "Asset root holding audits/<id>.json: a directory or http(s) URL")
	f.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.BoolVar(&a.rangeWarnings, "range-warnings", true, "Flag flow and conductivity readings outside their normal band")

	root.AddCommand(
		newFillCommand(a),
		newSubmitCommand(a),
		newInspectCommand(a),
		newRenderCommand(a),
		newLintCommand(a),
		newListCommand(a),
	)
	return root
}
