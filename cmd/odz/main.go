/*
Copyright 2011-2024 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// odz is the command-line front end for the ODZ v2 codec: mode
// auto-detection from the .odz suffix, -o/-f/-v0..2/-h, optional YAML
// config defaults, and batch/glob multi-file compression.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eeeeeeeeeevan/odzipweb/cmd/odz/internal/config"
	"github.com/eeeeeeeeeevan/odzipweb/cmd/odz/internal/mmapfile"
	"github.com/eeeeeeeeeevan/odzipweb/container"
	"github.com/eeeeeeeeeevan/odzipweb/lzmatch"

	odz "github.com/eeeeeeeeeevan/odzipweb"
)

const maxBatchConcurrency = 4

// options collects the fully-resolved settings for one invocation: flags
// override config file values, which override the hardcoded defaults.
type options struct {
	mode      byte // 'c', 'd', or 0 for auto-detect per file
	outPath   string
	force     bool
	verbosity int
	maxChain  int
	lazy      bool
	inputs    []string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, rc, handled := parseArgs(args)
	if handled {
		return rc
	}

	if len(opts.inputs) == 0 {
		usage(os.Args[0])
		return 2
	}

	paths, err := expandInputs(opts.inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "odz: error: %v\n", err)
		return 1
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "odz: error: no input files matched")
		return 1
	}

	if len(paths) == 1 {
		return processOne(opts, paths[0])
	}

	return processBatch(opts, paths)
}

// expandInputs turns the CLI's positional input list into a concrete file
// list: a bare path is used as-is, anything containing a glob meta
// character is expanded with doublestar (so `logs/**/*.txt` works the same
// whether the shell already expanded it or the caller quoted it).
func expandInputs(inputs []string) ([]string, error) {
	var out []string

	for _, in := range inputs {
		if !doublestar.ValidatePattern(in) || !strings.ContainsAny(in, "*?[{") {
			out = append(out, in)
			continue
		}

		matches, err := doublestar.FilepathGlob(in)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", in, err)
		}

		out = append(out, matches...)
	}

	return out, nil
}

// processBatch runs one file per goroutine, bounded by maxBatchConcurrency
// (SPEC_FULL.md DOMAIN STACK: cross-file concurrency, never splitting a
// single file's block loop across goroutines). Each file runs with
// verbosity capped at 1: its progress line is still printed, its per-file
// summary is not. The progress lines of files in flight at the same time
// all go to the same stderr.
func processBatch(opts options, paths []string) int {
	var g errgroup.Group
	g.SetLimit(maxBatchConcurrency)

	failed := make([]bool, len(paths))

	for i, p := range paths {
		i, p := i, p

		g.Go(func() error {
			single := opts
			single.verbosity = min(opts.verbosity, 1)

			if rc := processOne(single, p); rc != 0 {
				failed[i] = true
			}

			return nil
		})
	}

	_ = g.Wait()

	for _, f := range failed {
		if f {
			return 1
		}
	}

	return 0
}

func processOne(opts options, inPath string) (rc int) {
	var created *os.File
	var createdPath string

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "odz: error: unexpected failure on %s: %v\n", inPath, r)

			if created != nil {
				created.Close()
				os.Remove(createdPath)
			}

			rc = 1
		}
	}()

	mode := opts.mode
	if mode == 0 {
		mode = autoMode(inPath)
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = autoOutPath(inPath, mode)
	}

	if !opts.force {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(os.Stderr, "odz: '%s' already exists (use -f to overwrite)\n", outPath)
			return 1
		}
	}

	in, err := mmapfile.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "odz: error: cannot open input file: %v\n", err)
		return 1
	}
	defer in.Close()

	fout, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "odz: error: cannot open output file: %v\n", err)
		return 1
	}

	created, createdPath = fout, outPath

	if opts.verbosity >= 2 {
		verb := "compress"
		if mode == 'd' {
			verb = "decompress"
		}

		fmt.Fprintf(os.Stderr, "%s %s -> %s\n", verb, inPath, outPath)
	}

	codecOpts := odz.Options{}

	if opts.verbosity >= 1 {
		codecOpts.Progress = func(processed, total uint64, _ interface{}) int {
			pct := 100.0
			if total > 0 {
				pct = 100.0 * float64(processed) / float64(total)
			}

			fmt.Fprintf(os.Stderr, "\r  %d / %d bytes  (%.1f%%)", processed, total, pct)
			return 0
		}
	}

	var status odz.Status
	src := bytes.NewReader(in.Bytes())

	if mode == 'c' {
		status = container.CompressTuned(src, fout, codecOpts, opts.maxChain, opts.lazy)
	} else {
		status = container.Decompress(src, fout, codecOpts)
	}

	if opts.verbosity >= 1 {
		fmt.Fprintln(os.Stderr)
	}

	fout.Close()

	if status != odz.StatusOK {
		os.Remove(outPath)
		fmt.Fprintf(os.Stderr, "odz: error: %s\n", status)
		return 1
	}

	if opts.verbosity >= 2 {
		inSize := len(in.Bytes())
		outInfo, _ := os.Stat(outPath)
		var outSize int64
		if outInfo != nil {
			outSize = outInfo.Size()
		}

		if mode == 'c' {
			pct := 0.0
			if inSize > 0 {
				pct = 100.0 * float64(outSize) / float64(inSize)
			}

			fmt.Fprintf(os.Stderr, "  %d -> %d bytes (%.1f%%)\n", inSize, outSize, pct)
		} else {
			fmt.Fprintf(os.Stderr, "  %d -> %d bytes\n", inSize, outSize)
		}
	}

	return 0
}

func autoMode(inPath string) byte {
	if strings.HasSuffix(inPath, ".odz") {
		return 'd'
	}

	return 'c'
}

func autoOutPath(inPath string, mode byte) string {
	base := filepath.Base(inPath)

	if mode == 'c' {
		return base + ".odz"
	}

	if strings.HasSuffix(base, ".odz") {
		return strings.TrimSuffix(base, ".odz")
	}

	return base + ".raw"
}

func parseArgs(args []string) (opts options, rc int, handled bool) {
	opts.verbosity = 1
	opts.maxChain = lzmatch.DefaultMaxChain
	opts.lazy = true

	var cfgPath string
	verbositySet := false

	var positionals []string

	for i := 0; i < len(args); i++ {
		a := args[i]

		switch {
		case a == "-h" || a == "--help":
			usage(os.Args[0])
			return opts, 0, true
		case a == "-f" || a == "--force":
			opts.force = true
		case a == "-c":
			opts.mode = 'c'
		case a == "-d":
			opts.mode = 'd'
		case a == "-v0":
			opts.verbosity = 0
			verbositySet = true
		case a == "-v1":
			opts.verbosity = 1
			verbositySet = true
		case a == "-v2":
			opts.verbosity = 2
			verbositySet = true
		case a == "-o" || a == "--out":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "odz: error: missing argument for -o")
				return opts, 2, true
			}
			opts.outPath = args[i]
		case a == "--config":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "odz: error: missing argument for --config")
				return opts, 2, true
			}
			cfgPath = args[i]
		case len(a) > 1 && a[0] == '-':
			fmt.Fprintf(os.Stderr, "odz: unknown option: %s\n", a)
			usage(os.Args[0])
			return opts, 2, true
		default:
			positionals = append(positionals, a)
		}
	}

	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "odz: error: %v\n", err)
			return opts, 1, true
		}

		if cfg.MaxChain != nil {
			opts.maxChain = *cfg.MaxChain
		}

		if cfg.LazyMatching != nil {
			opts.lazy = *cfg.LazyMatching
		}

		if cfg.DefaultVerbose != nil && !verbositySet {
			opts.verbosity = *cfg.DefaultVerbose
		}
	}

	// Legacy "c <in> <out>" / "d <in> <out>" positional form, same as
	// original_source/main.c.
	if len(positionals) >= 1 && len(positionals[0]) == 1 &&
		(positionals[0][0] == 'c' || positionals[0][0] == 'd') {
		opts.mode = positionals[0][0]
		positionals = positionals[1:]

		if len(positionals) >= 1 {
			opts.inputs = positionals[:1]
		}

		if len(positionals) >= 2 && opts.outPath == "" {
			opts.outPath = positionals[1]
		}

		return opts, 0, false
	}

	if len(positionals) >= 1 {
		opts.inputs = positionals
	}

	// "<in> <out>" form only applies to a single input; multi-input /
	// glob batch mode always auto-generates per-file output names.
	if len(positionals) == 2 && opts.outPath == "" && !looksLikeGlob(positionals[0]) {
		opts.inputs = positionals[:1]
		opts.outPath = positionals[1]
	}

	return opts, 0, false
}

func looksLikeGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func usage(prog string) {
	fmt.Fprintf(os.Stderr, `odz - LZ77+Huffman compressor (format v%d)

usage:
  %s [options] <input>
  %s [options] <input> <output>
  %s [options] c <input> <output>
  %s [options] d <input> <output>
  %s [options] <input> [<input> ...]   (batch/glob mode)

options:
  -c              force compress
  -d              force decompress
  -o, --out FILE  output file
  -f, --force     overwrite existing output
  -v0             silent
  -v1             progress (default)
  -v2             verbose (progress + summary)
  --config FILE   read max_chain/lazy_matching/verbosity defaults from YAML
  -h, --help      show this help

Auto-detects mode from extension:
  file.txt     -> compress   -> file.txt.odz
  file.txt.odz -> decompress -> file.txt
`, odz.FormatVersion, prog, prog, prog, prog, prog)
}
