package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file.md|directory>...",
	Short: "Re-lint proposal documents whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addLintFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before re-linting")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := commandSettings(cmd)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	// the progress view would fight with the rolling output
	s.Progress = string(uiModeOff)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return watch(ctx, s, args, debounce, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// watch checks args once, then again after every burst of changes to a
// markdown file under them, until ctx is done.
func watch(ctx context.Context, s *settings, args []string, debounce time.Duration, out, errOut io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range watchDirs(args) {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	rerun := func() {
		err := check(ctx, s, args, out, errOut)
		var verr *validationError
		switch {
		case err == nil:
			fmt.Fprintf(errOut, "[%s] ok\n", time.Now().Format(time.TimeOnly))
		case errors.As(err, &verr):
			fmt.Fprintf(errOut, "[%s] %v\n", time.Now().Format(time.TimeOnly), verr)
		default:
			fmt.Fprintf(errOut, "[%s] error: %v\n", time.Now().Format(time.TimeOnly), err)
		}
	}
	rerun()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isMarkdown(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case <-timer.C:
			rerun()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch: %v\n", err)
		}
	}
}

// watchDirs returns the directories to watch for args, without duplicates.
// Files are watched through their parent so editors that replace files on
// save keep being noticed.
func watchDirs(args []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, arg := range args {
		dir := arg
		if info, err := os.Stat(arg); err != nil || !info.IsDir() {
			dir = filepath.Dir(arg)
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
