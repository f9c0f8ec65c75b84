// Package fetch reads documents referenced by the document being linted.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"
)

// ErrUnsupported is returned by Null for every path.
var ErrUnsupported = errors.ErrUnsupported

// Fetcher reads the text of a document by path. Implementations must be
// safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Func adapts a function to Fetcher.
type Func func(ctx context.Context, path string) (string, error)

func (f Func) Fetch(ctx context.Context, path string) (string, error) { return f(ctx, path) }

// Error records the path a fetch failed for.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("i/o error accessing `%s`: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Null refuses every fetch.
type Null struct{}

func (Null) Fetch(_ context.Context, path string) (string, error) {
	return "", &Error{Path: path, Err: ErrUnsupported}
}

// FS reads documents from the local filesystem.
type FS struct{}

func (FS) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// #nosec G304 -- paths come from the documents being linted
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &Error{Path: path, Err: errors.New("stream did not contain valid UTF-8")}
	}
	return string(data), nil
}

// Memory serves documents from an in-memory map keyed by cleaned path.
type Memory struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewMemory builds a Memory fetcher from path/content pairs.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string]string, len(files))}
	for p, content := range files {
		m.files[Clean(p)] = content
	}
	return m
}

// Set adds or replaces a document.
func (m *Memory) Set(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string]string)
	}
	m.files[Clean(path)] = content
}

func (m *Memory) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[Clean(path)]
	if !ok {
		return "", &Error{Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

// Clean normalizes a path for use as a cache or lookup key.
func Clean(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
