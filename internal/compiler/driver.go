/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package compiler drives the external solc binary to acquire a parsed AST
// and to validate candidate mutants by full recompilation.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gast "github.com/gambit-sol/gambit/internal/ast"
	"github.com/gambit-sol/gambit/internal/execution"
	"github.com/gambit-sol/gambit/internal/log"
)

// Options configures the forwarded compiler flags.
type Options struct {
	// Binary is the name or path of the compiler executable, e.g. "solc".
	Binary string

	BasePath    string
	AllowPaths  []string
	IncludePath string
	Remappings  []string
	Optimize    bool
}

// Driver invokes the external compiler.
type Driver struct {
	opts Options
}

// New builds a Driver. An empty Options.Binary defaults to "solc".
func New(opts Options) *Driver {
	if opts.Binary == "" {
		opts.Binary = "solc"
	}

	return &Driver{opts: opts}
}

// Result is the raw triple returned by a full compilation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CompileAST invokes solc --ast-compact-json --stop-after parsing on file
// and returns the root AST node.
//
// It fails when file doesn't have a .sol extension, when the scratch
// directory can't be created, when the compiler is killed by a signal, or
// when the AST file is missing or ill-formed afterwards. A non-zero exit
// code with the AST file still present is logged but tolerated: partial
// parses still produce a usable tree.
func (d *Driver) CompileAST(ctx context.Context, file, scratchRoot string) (gast.Node, error) {
	if filepath.Ext(file) != ".sol" {
		return gast.Node{}, execution.NewExitErr(execution.ConfigurationError, fmt.Errorf("not a .sol file: %s", file))
	}

	stem := strings.TrimSuffix(filepath.Base(file), ".sol")
	outDir := filepath.Join(scratchRoot, "input_json", stem)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return gast.Node{}, execution.NewExitErr(execution.IOError, err)
	}

	args := []string{"--ast-compact-json", "--stop-after", "parsing", file, "--output-dir", outDir, "--overwrite"}
	args = append(args, d.forwardedFlags()...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.opts.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return gast.Node{}, execution.NewExitErr(execution.IOError, fmt.Errorf("running %s: %w", d.opts.Binary, runErr))
		}
		if signalled(exitErr) {
			return gast.Node{}, execution.NewExitErr(execution.CompilerSignal, fmt.Errorf("%s terminated by signal while parsing %s", d.opts.Binary, file))
		}
		log.Errorf("%s exited %d parsing %s: %s\n", d.opts.Binary, exitErr.ExitCode(), file, stderr.String())
	}

	astPath, err := findCompactASTFile(outDir, stem)
	if err != nil {
		return gast.Node{}, execution.NewExitErr(execution.IOError, err)
	}

	data, err := os.ReadFile(astPath)
	if err != nil {
		return gast.Node{}, execution.NewExitErr(execution.IOError, err)
	}

	copyPath := filepath.Join(outDir, stem+"_json.ast.json")
	if err := os.WriteFile(copyPath, data, 0o644); err != nil { //nolint:gosec
		return gast.Node{}, execution.NewExitErr(execution.IOError, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return gast.Node{}, execution.NewExitErr(execution.MalformedAST, fmt.Errorf("parsing AST of %s: %w", file, err))
	}

	return gast.New(raw), nil
}

// Compile invokes a full compilation of file into outDir, for validation.
// A non-zero exit code is a normal, non-fatal outcome (the caller decides
// whether it means the mutant is invalid). A signal is reported as an
// error.
func (d *Driver) Compile(ctx context.Context, file, outDir string) (Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, execution.NewExitErr(execution.IOError, err)
	}

	args := []string{file, "--output-dir", outDir, "--overwrite"}
	args = append(args, d.forwardedFlags()...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.opts.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return res, fmt.Errorf("running %s: %w", d.opts.Binary, runErr)
	}
	if signalled(exitErr) {
		return res, fmt.Errorf("%s terminated by signal compiling %s", d.opts.Binary, file)
	}

	res.ExitCode = exitErr.ExitCode()
	log.Infof("%s exited %d compiling %s\n", d.opts.Binary, res.ExitCode, file)

	return res, nil
}

func (d *Driver) forwardedFlags() []string {
	var args []string
	if d.opts.BasePath != "" {
		args = append(args, "--base-path", d.opts.BasePath)
	}
	if len(d.opts.AllowPaths) > 0 {
		args = append(args, "--allow-paths", strings.Join(d.opts.AllowPaths, ","))
	}
	if d.opts.IncludePath != "" {
		args = append(args, "--include-path", d.opts.IncludePath)
	}
	args = append(args, d.opts.Remappings...)
	if d.opts.Optimize {
		args = append(args, "--optimize")
	}

	return args
}

func signalled(exitErr *exec.ExitError) bool {
	return exitErr.ProcessState.ExitCode() == -1
}

// findCompactASTFile locates the compact-json AST solc wrote for stem in
// dir. solc names it "<stem>.sol_json.ast"; we match loosely on the
// "_json.ast" suffix so different solc versions' exact basename handling
// doesn't matter.
func findCompactASTFile(dir, stem string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), "_json.ast") {
			return filepath.Join(dir, e.Name()), nil
		}
	}

	return "", fmt.Errorf("no AST output found for %s in %s", stem, dir)
}
