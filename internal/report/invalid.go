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

package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gambit-sol/gambit/internal/mutant"
)

const invalidLogFilename = "invalid.log"

// InvalidLogPath returns the canonical invalid-mutant log path for outDir.
func InvalidLogPath(outDir string) string {
	return outDir + string(os.PathSeparator) + invalidLogFilename
}

// WriteInvalidLog records every mutant that failed validation as a CSV row
// of index, operator, source path, line:column, original text and
// replacement text. A nil or empty slice still produces a header-only
// file.
func WriteInvalidLog(outDir string, invalid []*mutant.Mutant) error {
	//nolint:gosec // outDir is operator-controlled, not user input from a remote source
	f, err := os.Create(InvalidLogPath(outDir))
	if err != nil {
		return fmt.Errorf("creating invalid log: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "op", "path", "line:col", "orig", "repl"}); err != nil {
		return fmt.Errorf("writing invalid log header: %w", err)
	}

	for i, m := range invalid {
		line, col := m.Position()
		start, end := m.Range()
		orig := string(m.Source().Contents()[start:end])

		row := []string{
			fmt.Sprintf("%d", i+1),
			m.ShortName(),
			m.Source().Filename(),
			fmt.Sprintf("%d:%d", line, col),
			orig,
			m.Replacement(),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing invalid log row: %w", err)
		}
	}

	return w.Error()
}
