package main

import "testing"

func TestAutoModeFromSuffix(t *testing.T) {
	if autoMode("foo.txt") != 'c' {
		t.Fatalf("expected compress mode for foo.txt")
	}

	if autoMode("foo.txt.odz") != 'd' {
		t.Fatalf("expected decompress mode for foo.txt.odz")
	}
}

func TestAutoOutPath(t *testing.T) {
	if got := autoOutPath("dir/foo.txt", 'c'); got != "foo.txt.odz" {
		t.Fatalf("got %q, want foo.txt.odz", got)
	}

	if got := autoOutPath("dir/foo.txt.odz", 'd'); got != "foo.txt" {
		t.Fatalf("got %q, want foo.txt", got)
	}

	if got := autoOutPath("dir/foo.bin", 'd'); got != "foo.bin.raw" {
		t.Fatalf("got %q, want foo.bin.raw", got)
	}
}

func TestParseArgsLegacyPositionalForm(t *testing.T) {
	opts, rc, handled := parseArgs([]string{"c", "in.txt", "out.odz"})

	if handled || rc != 0 {
		t.Fatalf("unexpected early exit: rc=%d handled=%v", rc, handled)
	}

	if opts.mode != 'c' {
		t.Fatalf("expected compress mode, got %q", opts.mode)
	}

	if len(opts.inputs) != 1 || opts.inputs[0] != "in.txt" {
		t.Fatalf("unexpected inputs: %v", opts.inputs)
	}

	if opts.outPath != "out.odz" {
		t.Fatalf("unexpected outPath: %q", opts.outPath)
	}
}

func TestParseArgsFlagForm(t *testing.T) {
	opts, rc, handled := parseArgs([]string{"-d", "-f", "-v2", "-o", "out.bin", "in.odz"})

	if handled || rc != 0 {
		t.Fatalf("unexpected early exit: rc=%d handled=%v", rc, handled)
	}

	if opts.mode != 'd' || !opts.force || opts.verbosity != 2 || opts.outPath != "out.bin" {
		t.Fatalf("unexpected parsed options: %+v", opts)
	}

	if len(opts.inputs) != 1 || opts.inputs[0] != "in.odz" {
		t.Fatalf("unexpected inputs: %v", opts.inputs)
	}
}

func TestParseArgsHelpStopsProcessing(t *testing.T) {
	_, rc, handled := parseArgs([]string{"-h"})

	if !handled || rc != 0 {
		t.Fatalf("expected -h to be handled with rc 0, got rc=%d handled=%v", rc, handled)
	}
}

func TestParseArgsMissingOutArgument(t *testing.T) {
	_, rc, handled := parseArgs([]string{"-o"})

	if !handled || rc != 2 {
		t.Fatalf("expected missing -o argument to exit with rc 2, got rc=%d handled=%v", rc, handled)
	}
}

func TestParseArgsTwoPlainPositionalsIsInOut(t *testing.T) {
	opts, _, _ := parseArgs([]string{"in.txt", "out.odz"})

	if len(opts.inputs) != 1 || opts.inputs[0] != "in.txt" || opts.outPath != "out.odz" {
		t.Fatalf("unexpected parse result: %+v", opts)
	}
}

func TestParseArgsMultiplePositionalsIsBatchMode(t *testing.T) {
	opts, _, _ := parseArgs([]string{"a.txt", "b.txt", "c.txt"})

	if len(opts.inputs) != 3 || opts.outPath != "" {
		t.Fatalf("expected 3-input batch mode with no fixed outPath, got %+v", opts)
	}
}

func TestExpandInputsPassesThroughPlainPaths(t *testing.T) {
	got, err := expandInputs([]string{"a.txt", "b.txt"})
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}

	if len(got) != 2 || got[0] != "a.txt" || got[1] != "b.txt" {
		t.Fatalf("unexpected expansion: %v", got)
	}
}
