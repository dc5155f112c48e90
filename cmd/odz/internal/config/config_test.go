package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesKnownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odz.yaml")

	body := "max_chain: 256\nlazy_matching: false\nverbosity: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxChain == nil || *cfg.MaxChain != 256 {
		t.Fatalf("unexpected MaxChain: %v", cfg.MaxChain)
	}

	if cfg.LazyMatching == nil || *cfg.LazyMatching != false {
		t.Fatalf("unexpected LazyMatching: %v", cfg.LazyMatching)
	}

	if cfg.DefaultVerbose == nil || *cfg.DefaultVerbose != 2 {
		t.Fatalf("unexpected DefaultVerbose: %v", cfg.DefaultVerbose)
	}
}

func TestLoadAbsentKeysAreNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odz.yaml")

	if err := os.WriteFile(path, []byte("max_chain: 64\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LazyMatching != nil {
		t.Fatalf("expected LazyMatching to be nil when absent, got %v", *cfg.LazyMatching)
	}

	if cfg.DefaultVerbose != nil {
		t.Fatalf("expected DefaultVerbose to be nil when absent, got %v", *cfg.DefaultVerbose)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load("/nonexistent/odz.yaml"); err == nil {
		t.Fatalf("expected an error loading a nonexistent config file")
	}
}
