package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"eipw/internal/lint"
)

func TestProgressModelTracksDocuments(t *testing.T) {
	events := make(chan lint.Event)
	m := NewProgressModel("eipw", []string{"eip-1.md", "eip-2.md"}, events).(*progressModel)

	m.Update(eventMsg{Origin: "eip-1.md", Phase: lint.PhaseFetch, Status: lint.StatusWorking})
	if got := m.items[0].status; got != "fetching" {
		t.Fatalf("status = %q, want fetching", got)
	}
	if got := m.percent(); got != 0.2 {
		t.Fatalf("percent = %v, want 0.2", got)
	}

	m.Update(eventMsg{Origin: "eip-1.md", Phase: lint.PhaseDone, Status: lint.StatusDone})
	m.Update(eventMsg{Origin: "eip-2.md", Phase: lint.PhaseDone, Status: lint.StatusError})
	m.Update(eventMsg{Origin: "unknown.md", Status: lint.StatusWorking})
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"eip-1.md", "eip-2.md", "done", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("doneMsg must finish the model")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("doneMsg must quit the program")
	}
}

func TestListenForEventStopsOnClose(t *testing.T) {
	events := make(chan lint.Event)
	close(events)
	m := NewProgressModel("eipw", nil, events).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel must produce doneMsg")
	}
	if m.View() != "" {
		t.Fatal("no files means no view")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.md", 20, "short.md"},
		{"EIPS/eip-1234.md", 10, "EIPS..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
