package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"eipw/internal/lint"
	"eipw/internal/ui"
)

type runOutcome struct {
	summary *lint.Summary
	err     error
}

// runWithUI runs l while a progress view renders on out. Quitting the view
// early cancels the run.
func runWithUI(ctx context.Context, l *lint.Linter, title string, files []string, out io.Writer) (*lint.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan lint.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	l.SetProgress(lint.ChannelSink{Ch: events})
	go func() {
		summary, err := l.Run(ctx)
		outcomeCh <- runOutcome{summary: summary, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()

	// the view may stop reading before the run ends
	cancel()
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}
