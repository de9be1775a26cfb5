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

// Package diff produces the unified diff reported for each persisted
// mutant, the "diff" field of the result JSON entry.
package diff

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
)

// Unified shells out to the system `diff` utility to produce a unified
// diff between original and mutated, labeled with name.
//
// The absence of `diff` on PATH degrades gracefully to an empty string
// rather than failing the run: the diff field is a user-facing nicety,
// not something any invariant depends on.
func Unified(name string, original, mutated []byte) string {
	bin, err := exec.LookPath("diff")
	if err != nil {
		return ""
	}

	dir, err := os.MkdirTemp("", "gambit-diff-*")
	if err != nil {
		return ""
	}
	defer func() { _ = os.RemoveAll(dir) }()

	origFile := filepath.Join(dir, "a")
	mutFile := filepath.Join(dir, "b")
	if err := os.WriteFile(origFile, original, 0o600); err != nil {
		return ""
	}
	if err := os.WriteFile(mutFile, mutated, 0o600); err != nil {
		return ""
	}

	label := filepath.Base(name)
	// #nosec G204 - bin is resolved via LookPath, args are local temp paths
	cmd := exec.Command(bin, "-u", "--label", label, "--label", label, origFile, mutFile)
	out, runErr := cmd.Output()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return ""
		}
		// diff exits 1 to mean "the inputs differ", which is the expected
		// outcome here; anything else means diff itself failed.
		if exitErr.ExitCode() > 1 {
			return ""
		}
	}

	return string(out)
}
