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

package mutator

import (
	"context"
	"path/filepath"

	"github.com/gambit-sol/gambit/internal/compiler"
	"github.com/gambit-sol/gambit/internal/log"
	"github.com/gambit-sol/gambit/internal/mutant"
	"github.com/gambit-sol/gambit/internal/workdir"
)

// Validator decides whether a Mutant recompiles. Each validation runs
// inside its own scratch copy of the source tree, so relative imports
// resolve exactly as they did for the original compile, and the user's
// actual source tree is never touched.
type Validator struct {
	driver *compiler.Driver
	dealer workdir.Dealer
}

// NewValidator builds a Validator that compiles through driver, using
// dealer to produce isolated scratch copies of the source tree.
func NewValidator(driver *compiler.Driver, dealer workdir.Dealer) *Validator {
	return &Validator{driver: driver, dealer: dealer}
}

// Validate writes m's mutated buffer into a fresh scratch copy of the
// source tree and recompiles it. Exit code zero means valid; a non-zero
// exit, a signal, or any I/O failure means invalid.
func (v *Validator) Validate(ctx context.Context, m *mutant.Mutant) bool {
	relPath, err := filepath.Rel(v.dealer.BaseDir(), m.Source().Filename())
	if err != nil {
		log.Errorf("validate: %s\n", err)

		return false
	}

	scratchDir, err := v.dealer.Get()
	if err != nil {
		log.Errorf("validate: %s\n", err)

		return false
	}
	defer v.dealer.Release(scratchDir)

	if err := workdir.WriteFile(scratchDir, relPath, m.MutatedSource()); err != nil {
		log.Errorf("validate: %s\n", err)

		return false
	}

	res, err := v.driver.Compile(ctx, filepath.Join(scratchDir, relPath), filepath.Join(scratchDir, "validate_out"))
	if err != nil {
		log.Errorf("validate: %s\n", err)

		return false
	}

	return res.ExitCode == 0
}

// GetValidMutants partitions mutants into the ones that validate and the
// ones that don't, setting each Mutant's Status as a side effect.
func (v *Validator) GetValidMutants(ctx context.Context, mutants []*mutant.Mutant) (valid, invalid []*mutant.Mutant) {
	for _, m := range mutants {
		if v.Validate(ctx, m) {
			m.SetStatus(mutant.Valid)
			valid = append(valid, m)

			continue
		}
		m.SetStatus(mutant.Invalid)
		invalid = append(invalid, m)
	}

	return valid, invalid
}
