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

// Package pipeline groups mutate requests by output directory, runs the
// mutator over each source file, applies down-sampling and validation,
// and writes the surviving mutants and the result report.
package pipeline

import (
	"path/filepath"

	"github.com/gambit-sol/gambit/internal/compiler"
)

// Params is one mutate request, the record the command layer builds from
// flags or from a JSON configuration document.
type Params struct {
	// Filename is the .sol file to mutate.
	Filename string
	// SourceRoot restricts Filename and is used to resolve the tree
	// copied for validation. Defaults to Filename's directory.
	SourceRoot string
	// OutputDir is the directory mutants, reports and transient AST
	// dumps are written under. Defaults to "gambit_out".
	OutputDir string

	// Operators allowlists operator short names; empty means the full
	// catalog.
	Operators []string
	// Functions restricts mutation to these function names; empty means
	// no restriction.
	Functions []string
	// Contract restricts mutation to this contract's body; empty means
	// no restriction.
	Contract string

	// NumMutants, when > 0, enables the down-sample filter.
	NumMutants int
	// Seed drives the down-sample filter's deterministic shuffle.
	Seed int64
	// RandomSeed, when true, draws a fresh seed instead of using Seed.
	RandomSeed bool

	// SkipValidate keeps every generated mutant unfiltered and
	// unvalidated. Ignored when NumMutants > 0.
	SkipValidate bool
	// Export writes each surviving mutant's source under
	// <OutputDir>/mutants/<id>/.
	Export bool
	// Overwrite allows removing a pre-existing OutputDir.
	Overwrite bool

	// Compiler forwards the external compiler invocation options.
	Compiler compiler.Options
}

func (p Params) outputDir() string {
	if p.OutputDir == "" {
		return "gambit_out"
	}

	return p.OutputDir
}

func (p Params) sourceRoot() string {
	if p.SourceRoot != "" {
		return p.SourceRoot
	}

	return filepath.Dir(p.Filename)
}
