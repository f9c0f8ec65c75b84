package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"eipw/internal/config"
	"eipw/internal/diag"
	"eipw/internal/diagfmt"
	"eipw/internal/fetch"
	"eipw/internal/lint"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.md|directory>...",
	Short: "Lint proposal documents",
	Long:  `Lint proposal documents. Directories are expanded to the *.md files directly inside them.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addLintFlags(checkCmd)
	checkCmd.Flags().String("progress", "off", "show a progress view on stderr (auto|on|off)")
}

// addLintFlags registers the flags shared by every command that lints.
func addLintFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "text", "output format (text|short|json|msgpack)")
	cmd.Flags().StringP("lint-config", "c", "", "lint configuration file (default: eipw.toml found upwards)")
	cmd.Flags().Bool("no-default-lints", false, "do not enable the built-in lints")
	cmd.Flags().StringSliceP("deny", "D", nil, "report a lint's findings as errors")
	cmd.Flags().StringSliceP("warn", "W", nil, "report a lint's findings as warnings")
	cmd.Flags().StringSliceP("allow", "A", nil, "disable a lint")
	cmd.Flags().Int("jobs", 0, "max concurrent fetches (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := commandSettings(cmd)
	if err != nil {
		return err
	}
	return check(cmd.Context(), s, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// check lints the documents named by args and writes diagnostics to out. It
// returns a *validationError when any error-level diagnostic was reported.
func check(ctx context.Context, s *settings, args []string, out, errOut io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cleanup, err := setupTracing(ctx, s, errOut)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	files, err := collectSources(args)
	if err != nil {
		return err
	}

	progress, err := readUIMode("progress", s.Progress)
	if err != nil {
		return err
	}
	showProgress := progress.enabledFor(errOut)

	// diagnostics are held back while the progress view owns the terminal
	target := out
	var held bytes.Buffer
	if showProgress {
		target = &held
	}

	sink, err := newSink(s, target, out)
	if err != nil {
		return err
	}
	counter := diag.NewCount(diag.NewAdditionalHelp(sink, lintHelp))

	// a file reached twice, say through its directory and by name, is
	// reported once
	l, err := newLinter(s, diag.NewDedup(counter))
	if err != nil {
		return err
	}
	for _, file := range files {
		l.CheckFile(file)
	}

	var summary *lint.Summary
	if showProgress {
		summary, err = runWithUI(ctx, l, "eipw", files, errOut)
	} else {
		summary, err = l.Run(ctx)
	}
	if closeErr := sink.Close(); err == nil {
		err = closeErr
	}
	if showProgress {
		if _, copyErr := held.WriteTo(out); err == nil && copyErr != nil {
			err = diag.Wrap(copyErr)
		}
	}
	if err != nil {
		return err
	}

	for _, ruleErr := range summary.RuleErrors {
		fmt.Fprintf(errOut, "error: %v\n", ruleErr)
	}
	if n := counter.Counts().Error; n > 0 {
		return &validationError{errors: n}
	}
	return nil
}

func lintHelp(id string) (string, error) {
	return fmt.Sprintf("see https://ethereum.github.io/eipw/%s/", id), nil
}

// newSink builds the reporter for s.Format writing to w. Color follows the
// terminal that will finally receive the output.
func newSink(s *settings, w, terminal io.Writer) (diagfmt.Sink, error) {
	format, err := diagfmt.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}
	colorMode, err := readUIMode("color", s.Color)
	if err != nil {
		return nil, err
	}
	return diagfmt.NewSink(format, w, diagfmt.PrettyOpts{
		Color:    colorMode.enabledFor(terminal),
		PathMode: diagfmt.PathModeAsIs,
	})
}

// newLinter configures a linter from the lint configuration and the
// -D/-W/-A overrides.
func newLinter(s *settings, reporter diag.Reporter) (*lint.Linter, error) {
	cfg, err := loadLintConfig(s.LintConfig)
	if err != nil {
		return nil, err
	}

	l := lint.New(reporter)
	l.SetFetch(fetch.FS{})
	l.SetJobs(s.Jobs)
	if err := cfg.Apply(l, !s.NoDefaultLints); err != nil {
		return nil, err
	}

	for _, slug := range s.Allow {
		if err := l.Allow(slug); err != nil {
			return nil, err
		}
	}
	if err := override(l, cfg, s.Warn, lint.SeverityWarn); err != nil {
		return nil, err
	}
	if err := override(l, cfg, s.Deny, lint.SeverityDeny); err != nil {
		return nil, err
	}
	return l, nil
}

// override sets severity for already enabled slugs and enables the others
// from the configuration or the defaults.
func override(l *lint.Linter, cfg *config.Config, slugs []string, severity lint.Severity) error {
	enabled := l.Slugs()
	for _, slug := range slugs {
		if slices.Contains(enabled, slug) {
			if err := l.SetSeverity(slug, severity); err != nil {
				return err
			}
			continue
		}
		rule, ok := cfg.Rule(slug)
		if !ok {
			return fmt.Errorf("%w: `%s`", lint.ErrUnknownSlug, slug)
		}
		if err := l.Register(slug, severity, rule); err != nil {
			return err
		}
		enabled = append(enabled, slug)
	}
	return nil
}

// loadLintConfig loads path, or the nearest eipw.toml when path is empty.
func loadLintConfig(path string) (*config.Config, error) {
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return config.Default(), nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load lint config: %w", err)
	}
	return cfg, nil
}

// collectSources expands directories to the *.md files directly inside them.
// Files named explicitly are kept whatever their extension.
func collectSources(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %q: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no *.md files to check")
	}
	return files, nil
}
