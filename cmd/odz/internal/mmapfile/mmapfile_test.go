package mmapfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	want := bytes.Repeat([]byte("the quick brown fox "), 1000)

	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if !bytes.Equal(f.Bytes(), want) {
		t.Fatalf("content mismatch: got %d bytes, want %d", len(f.Bytes()), len(want))
	}
}

func TestOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if len(f.Bytes()) != 0 {
		t.Fatalf("expected empty content, got %d bytes", len(f.Bytes()))
	}
}

func TestOpenMissingFileIsError(t *testing.T) {
	if _, err := Open("/nonexistent/data.bin"); err == nil {
		t.Fatalf("expected an error opening a nonexistent file")
	}
}
