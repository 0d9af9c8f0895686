package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	auditform "github.com/goliatone/go-auditform"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/schema"
)

type violation struct {
	file     string
	location string
	severity string
	message  string
}

type lintTarget struct {
	name string
	read func() ([]byte, error)
}

func newLintCommand(a *app) *cobra.Command {
	var strict, watch bool
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check audit form descriptions",
		Long:  "Lint validates audit form files or directories of them. Structural errors always fail; lint warnings fail only with --strict. Without paths the bundled forms are checked. With --watch the paths are re-checked whenever a form file changes, until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && len(args) == 0 {
				return codeError(3, "--watch needs at least one path")
			}
			targets, err := lintTargets(args)
			if err != nil {
				return codeError(3, "%s", err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			violations, err := lintAll(ctx, targets)
			if err != nil {
				return codeError(1, "%s", err)
			}
			failed := a.reportViolations(violations, strict)
			fmt.Fprintf(a.out, "%d file(s) checked, %d finding(s)\n", len(targets), len(violations))

			if watch {
				return a.watchLint(ctx, args)
			}
			if failed {
				return codeError(1, "lint failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat lint warnings as failures")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-check changed files until interrupted")
	return cmd
}

func (a *app) reportViolations(violations []violation, strict bool) bool {
	failed := false
	for _, v := range violations {
		fmt.Fprintf(a.errOut, "%s: %s: %s -> %s\n", v.file, v.severity, v.location, v.message)
		if v.severity == "error" || strict {
			failed = true
		}
	}
	return failed
}

func (a *app) watchLint(ctx context.Context, roots []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fw, err := newFormWatcher(roots, watchDebounce)
	if err != nil {
		return codeError(3, "%s", err)
	}
	fmt.Fprintln(a.out, "watching for changes, press Ctrl+C to stop")
	err = fw.Run(ctx, func(p string) {
		violations, err := lintAll(ctx, []lintTarget{fileTarget(p)})
		if err != nil {
			a.logger.Warn("lint after change failed", zap.String("file", p), zap.Error(err))
			return
		}
		a.reportViolations(violations, false)
		fmt.Fprintf(a.out, "%s: %d finding(s)\n", p, len(violations))
	})
	if err != nil {
		return codeError(1, "%s", err)
	}
	return nil
}

func lintTargets(paths []string) ([]lintTarget, error) {
	if len(paths) == 0 {
		assets := auditform.AssetsFS()
		var targets []lintTarget
		for _, id := range auditform.BundledAudits() {
			name := schema.AuditPath(id)
			targets = append(targets, lintTarget{
				name: name,
				read: func() ([]byte, error) { return fs.ReadFile(assets, name) },
			})
		}
		return targets, nil
	}

	var targets []lintTarget
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			targets = append(targets, fileTarget(root))
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isFormFile(p) {
				return nil
			}
			targets = append(targets, fileTarget(p))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func fileTarget(p string) lintTarget {
	return lintTarget{name: p, read: func() ([]byte, error) { return os.ReadFile(p) }}
}

func isFormFile(p string) bool {
	switch strings.ToLower(path.Ext(filepath.ToSlash(p))) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// lintAll checks targets concurrently. Unreadable files abort the run; decode
// and structural failures are reported as error findings.
func lintAll(ctx context.Context, targets []lintTarget) ([]violation, error) {
	results := make([][]violation, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			linted, err := lintFile(target)
			if err != nil {
				return fmt.Errorf("lint %s: %w", target.name, err)
			}
			results[i] = linted
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var violations []violation
	for _, r := range results {
		violations = append(violations, r...)
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	return violations, nil
}

func lintFile(target lintTarget) ([]violation, error) {
	raw, err := target.read()
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	f, err := form.Decode(raw, form.FormatFromPath(target.name))
	if err != nil {
		return []violation{{file: target.name, location: "document", severity: "error", message: err.Error()}}, nil
	}
	if err := form.Validate(f); err != nil {
		return []violation{{file: target.name, location: "document", severity: "error", message: err.Error()}}, nil
	}

	var result []violation
	for _, issue := range form.Lint(f) {
		location := "form"
		switch {
		case issue.Section != "" && issue.Field != "":
			location = issue.Section + "." + issue.Field
		case issue.Section != "":
			location = issue.Section
		}
		result = append(result, violation{
			file:     target.name,
			location: location,
			severity: "warning",
			message:  issue.Message,
		})
	}
	return result, nil
}
