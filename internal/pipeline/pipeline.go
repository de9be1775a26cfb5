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

package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gambit-sol/gambit/internal/compiler"
	"github.com/gambit-sol/gambit/internal/diff"
	"github.com/gambit-sol/gambit/internal/execution"
	"github.com/gambit-sol/gambit/internal/log"
	"github.com/gambit-sol/gambit/internal/mutant"
	"github.com/gambit-sol/gambit/internal/mutator"
	"github.com/gambit-sol/gambit/internal/operator"
	"github.com/gambit-sol/gambit/internal/report"
	"github.com/gambit-sol/gambit/internal/source"
	"github.com/gambit-sol/gambit/internal/workdir"
)

// group is one output directory's worth of requests, in the order their
// params first appeared.
type group struct {
	outDir string
	params []Params
}

// survivor pairs a mutant with the Export setting of the param that
// produced it, since different params in the same group may disagree.
type survivor struct {
	m      *mutant.Mutant
	export bool
}

// Run executes the full mutation pipeline for every param, grouped by
// output directory.
func Run(ctx context.Context, params []Params) error {
	for _, g := range groupByOutputDir(params) {
		if err := runGroup(ctx, g); err != nil {
			return err
		}
	}

	return nil
}

func groupByOutputDir(params []Params) []group {
	index := map[string]int{}
	var groups []group
	for _, p := range params {
		outDir := p.outputDir()
		if i, ok := index[outDir]; ok {
			groups[i].params = append(groups[i].params, p)

			continue
		}
		index[outDir] = len(groups)
		groups = append(groups, group{outDir: outDir, params: []Params{p}})
	}

	return groups
}

func runGroup(ctx context.Context, g group) error {
	ready, err := prepareGroupDir(g.outDir, g.params)
	if err != nil {
		return err
	}
	if !ready {
		return nil
	}

	start := time.Now()

	var survivors []survivor
	var invalid []*mutant.Mutant

	for _, p := range g.params {
		valid, inv, err := runParam(ctx, p)
		if err != nil {
			log.Errorf("%s: %s\n", p.Filename, err)

			continue
		}
		for _, m := range valid {
			survivors = append(survivors, survivor{m: m, export: p.Export})
		}
		invalid = append(invalid, inv...)
	}

	if err := writeGroup(g.outDir, survivors, invalid); err != nil {
		return err
	}

	valid := make([]*mutant.Mutant, len(survivors))
	for i, s := range survivors {
		valid[i] = s.m
	}
	report.NewStats(valid, invalid, time.Since(start)).Log()

	return nil
}

// prepareGroupDir prepares an output directory: if it already exists and
// every param in the group allows overwriting, it is removed and
// recreated; otherwise the whole group is skipped with a diagnostic. The
// second return value is false in the skip case.
func prepareGroupDir(outDir string, group []Params) (bool, error) {
	if _, err := os.Stat(outDir); err == nil {
		canOverwrite := true
		for _, p := range group {
			if !p.Overwrite {
				canOverwrite = false

				break
			}
		}
		if !canOverwrite {
			log.Errorf("output directory %s already exists; pass --overwrite to replace it, skipping\n", outDir)

			return false, nil
		}
		if err := os.RemoveAll(outDir); err != nil {
			return false, execution.NewExitErr(execution.IOError, err)
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return false, execution.NewExitErr(execution.IOError, err)
	}

	return true, nil
}

// runParam runs one file through the mutator, then applies down-sampling,
// skip-validate or full validation.
func runParam(ctx context.Context, p Params) (valid, invalid []*mutant.Mutant, err error) {
	rel, relErr := filepath.Rel(p.sourceRoot(), p.Filename)
	if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, nil, execution.NewExitErr(execution.ConfigurationError, fmt.Errorf("%s is not inside source root %s", p.Filename, p.sourceRoot()))
	}

	driver := compiler.New(p.Compiler)

	root, err := driver.CompileAST(ctx, p.Filename, p.outputDir())
	if err != nil {
		return nil, nil, err
	}

	src, err := source.New(p.Filename)
	if err != nil {
		return nil, nil, execution.NewExitErr(execution.IOError, err)
	}

	ops := operator.ByNames(p.Operators)
	mu := mutator.New(src, root, ops, p.Contract, p.Functions)

	mutants, err := mu.Mutate()
	if err != nil {
		return nil, nil, err
	}

	scratchDir := filepath.Join(p.outputDir(), "validate_scratch")
	dealer := workdir.NewCachedDealer(scratchDir, p.sourceRoot())
	defer dealer.Clean()
	validator := mutator.NewValidator(driver, dealer)

	switch {
	case p.NumMutants > 0:
		return downSample(ctx, mutants, p, validator)
	case p.SkipValidate:
		return mutants, nil, nil
	default:
		valid, invalid = validator.GetValidMutants(ctx, mutants)

		return valid, invalid, nil
	}
}

// downSample shuffles the candidate pool deterministically by seed, then
// validates in that order until k valid mutants accumulate or the pool
// runs out — the policy that honors "give me exactly k valid mutants if
// possible" rather than stopping at the first k candidates tried.
func downSample(ctx context.Context, mutants []*mutant.Mutant, p Params, validator *mutator.Validator) (valid, invalid []*mutant.Mutant, err error) {
	seed := p.Seed
	if p.RandomSeed {
		seed = time.Now().UnixNano()
	}

	order := rand.New(rand.NewSource(seed)).Perm(len(mutants)) //nolint:gosec // deterministic sampling, not a security primitive

	for _, idx := range order {
		if len(valid) >= p.NumMutants {
			break
		}
		m := mutants[idx]
		if validator.Validate(ctx, m) {
			m.SetStatus(mutant.Valid)
			valid = append(valid, m)

			continue
		}
		m.SetStatus(mutant.Invalid)
		invalid = append(invalid, m)
	}

	return valid, invalid, nil
}

// writeGroup assigns dense sequential ids to survivors in allocation
// order, optionally exports each mutant's source, and writes the group's
// gambit_results.json and invalid.log.
func writeGroup(outDir string, survivors []survivor, invalid []*mutant.Mutant) error {
	entries := make([]report.Entry, 0, len(survivors))

	for i, s := range survivors {
		id := i + 1
		s.m.SetID(id)
		basename := filepath.Base(s.m.Source().Filename())
		name := fmt.Sprintf("mutants/%d/%s", id, basename)

		annotated := s.m.AnnotatedSource()

		if s.export {
			dir := filepath.Join(outDir, "mutants", fmt.Sprintf("%d", id))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return execution.NewExitErr(execution.IOError, err)
			}
			//nolint:gosec // dir is derived from the operator-controlled output directory
			if err := os.WriteFile(filepath.Join(dir, basename), annotated, 0o644); err != nil {
				return execution.NewExitErr(execution.IOError, err)
			}
		}

		diffText := diff.Unified(basename, s.m.Source().Contents(), annotated)
		entries = append(entries, report.Entry{
			ID:          id,
			Name:        name,
			Description: s.m.ShortName(),
			Diff:        diffText,
		})

		log.Status("WRITTEN", s.m.ShortName(), positionString(s.m))
	}

	for _, m := range invalid {
		log.Status("INVALID", m.ShortName(), positionString(m))
	}

	if err := report.WriteResults(outDir, entries); err != nil {
		return execution.NewExitErr(execution.IOError, err)
	}

	if len(invalid) > 0 {
		if err := report.WriteInvalidLog(outDir, invalid); err != nil {
			return execution.NewExitErr(execution.IOError, err)
		}
	}

	return nil
}

func positionString(m *mutant.Mutant) string {
	line, col := m.Position()

	return fmt.Sprintf("%s:%d:%d", m.Source().Filename(), line, col)
}
