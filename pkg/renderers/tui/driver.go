package tui

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Question is what the filler asks for one control. Default is the control's
// current value rendered as text; Options and Selected only apply to choices
// (Selected is -1 when nothing matches the current value).
type Question struct {
	Message    string
	Help       string
	Default    string
	DefaultYes bool
	Options    []string
	Selected   int
}

// PromptDriver is the terminal seen by a Filler. Each method matches one kind
// of control so scripted drivers can answer by message.
type PromptDriver interface {
	Text(ctx context.Context, q Question) (string, error)
	Secret(ctx context.Context, q Question) (string, error)
	Multiline(ctx context.Context, q Question) (string, error)
	Choose(ctx context.Context, q Question) (int, error)
	Confirm(ctx context.Context, q Question) (bool, error)
	// Info prints a line that needs no answer: titles, errors, warnings.
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	printer *zap.Logger
}

// NewSurveyDriver returns the interactive driver. Info lines are written to
// out (stdout when nil) through a message-only zap core, so they carry no
// level, timestamp or caller.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{printer: newPrinter(out)}
}

func newPrinter(out io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(out), zapcore.DebugLevel))
}

func (d *surveyDriver) Text(ctx context.Context, q Question) (string, error) {
	var out string
	err := ask(ctx, &survey.Input{Message: q.Message, Help: q.Help, Default: q.Default}, &out)
	return out, err
}

func (d *surveyDriver) Secret(ctx context.Context, q Question) (string, error) {
	var out string
	err := ask(ctx, &survey.Password{Message: q.Message, Help: q.Help}, &out)
	return out, err
}

func (d *surveyDriver) Multiline(ctx context.Context, q Question) (string, error) {
	var out string
	err := ask(ctx, &survey.Multiline{Message: q.Message, Help: q.Help, Default: q.Default}, &out)
	return out, err
}

func (d *surveyDriver) Choose(ctx context.Context, q Question) (int, error) {
	prompt := &survey.Select{Message: q.Message, Options: q.Options, Help: q.Help}
	if q.Selected >= 0 && q.Selected < len(q.Options) {
		prompt.Default = q.Options[q.Selected]
	}
	// survey writes the chosen index into an int target.
	var out int
	if err := ask(ctx, prompt, &out); err != nil {
		return -1, err
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, q Question) (bool, error) {
	var out bool
	err := ask(ctx, &survey.Confirm{Message: q.Message, Help: q.Help, Default: q.DefaultYes}, &out)
	return out, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.printer.Info(msg)
	return nil
}

func ask(ctx context.Context, prompt survey.Prompt, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}
