package fetch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestNullIsUnsupported(t *testing.T) {
	_, err := Null{}.Fetch(context.Background(), "eip-1.md")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Path != "eip-1.md" {
		t.Fatalf("expected *Error with path, got %v", err)
	}
}

func TestMemoryCleansPaths(t *testing.T) {
	m := NewMemory(map[string]string{"dir/./eip-1.md": "one"})
	got, err := m.Fetch(context.Background(), "dir/sub/../eip-1.md")
	if err != nil || got != "one" {
		t.Fatalf("Fetch = %q, %v", got, err)
	}
	if _, err := m.Fetch(context.Background(), "eip-2.md"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestMemoryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var m Memory
	m.Set("a.md", "x")
	if _, err := m.Fetch(ctx, "a.md"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFSReadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eip-1.md")
	if err := os.WriteFile(path, []byte("---\na: b\n---\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := FS{}.Fetch(context.Background(), path)
	if err != nil || got != "---\na: b\n---\n" {
		t.Fatalf("Fetch = %q, %v", got, err)
	}

	bad := filepath.Join(dir, "bad.md")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (FS{}).Fetch(context.Background(), bad); err == nil {
		t.Fatalf("expected invalid UTF-8 error")
	}
	if _, err := (FS{}).Fetch(context.Background(), filepath.Join(dir, "nope.md")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}
