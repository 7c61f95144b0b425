package output_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-proposal/pkg/output"
)

func TestWriter_WriteAndReplace(t *testing.T) {
	dir := t.TempDir()
	w := output.NewWriter(dir)
	ctx := context.Background()

	exists, err := w.Exists("")
	if err != nil || exists {
		t.Fatalf("expected no file yet, got %v %v", exists, err)
	}

	path, err := w.Write(ctx, "", []byte("<p>first</p>"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, output.DefaultFilename) {
		t.Fatalf("unexpected path %s", path)
	}
	if _, err := w.Write(ctx, "", []byte("<p>second</p>")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "<p>second</p>" {
		t.Fatalf("expected replaced content, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the output file, found %d entries", len(entries))
	}
}

func TestWriter_Subdirectory(t *testing.T) {
	dir := t.TempDir()
	path, err := output.NewWriter(dir).Write(context.Background(), "site/index.html", []byte("ok"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "site", "index.html") {
		t.Fatalf("unexpected path %s", path)
	}
}

func TestWriter_RejectsEscapingNames(t *testing.T) {
	w := output.NewWriter(t.TempDir())
	for _, name := range []string{"../x.html", "/etc/passwd", ".."} {
		if _, err := w.Write(context.Background(), name, nil); !errors.Is(err, output.ErrInvalidName) {
			t.Fatalf("%q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := output.NewWriter(t.TempDir()).Write(ctx, "a.html", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
