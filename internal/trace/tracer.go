package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // kept in memory for a later dump
	ModeBoth
)

var modes = map[string]Mode{"stream": ModeStream, "ring": ModeRing, "both": ModeBoth}

// ParseMode reads a mode name.
func ParseMode(s string) (Mode, error) {
	if m, ok := modes[strings.ToLower(s)]; ok {
		return m, nil
	}
	return ModeStream, fmt.Errorf("unknown mode %q (expected: stream|ring|both)", s)
}

// Config describes a tracer.
type Config struct {
	Level    Level
	Mode     Mode
	Output   io.Writer // stream destination; Path is opened when nil
	Path     string    // "" and "-" mean stderr; *.ndjson and *.jsonl get NDJSON
	RingSize int       // 4096 when zero
}

// New builds the tracer cfg describes. It returns Nop at LevelOff.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case 0, ModeStream, ModeBoth:
	default:
		return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
	}

	w, err := cfg.output()
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, formatFor(cfg.Path))
	if cfg.Mode != ModeBoth {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

func (cfg Config) output() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.Path == "" || cfg.Path == "-":
		return stderr{}, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// stderr is os.Stderr without a Close method.
type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
