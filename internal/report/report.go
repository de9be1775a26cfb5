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

// Package report writes and reads the gambit_results.json produced by a
// run, and formats the output for the summary subcommand.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/gambit-sol/gambit/internal/report/internal"
)

// Entry is one surviving mutant, as recorded in gambit_results.json.
type Entry = internal.Entry

const resultsFilename = "gambit_results.json"

// ResultsPath returns the canonical result file path for outDir.
func ResultsPath(outDir string) string {
	return outDir + string(os.PathSeparator) + resultsFilename
}

// WriteResults marshals entries as the outDir's gambit_results.json.
// An empty entries slice is still written as "[]", not omitted: the file's
// presence is how a caller distinguishes "ran, nothing survived" from
// "didn't run".
func WriteResults(outDir string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	//nolint:gosec // outDir is operator-controlled, not user input from a remote source
	if err := os.WriteFile(ResultsPath(outDir), data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	return nil
}

// ReadResults reads and decodes a gambit_results.json at outDir.
func ReadResults(outDir string) ([]Entry, error) {
	data, err := os.ReadFile(ResultsPath(outDir)) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}

	return entries, nil
}

var fgHiCyan = color.New(color.FgHiCyan).SprintFunc()

// Summary writes a human-readable account of entries to w, restricted to
// the ids in mids when it is non-empty.
func Summary(w io.Writer, entries []Entry, mids map[int]struct{}) {
	for _, e := range entries {
		if len(mids) > 0 {
			if _, ok := mids[e.ID]; !ok {
				continue
			}
		}

		_, _ = fmt.Fprintf(w, "#%s %s %s\n", fgHiCyan(e.ID), e.Description, e.Name)
		if e.Diff != "" {
			_, _ = fmt.Fprintln(w, e.Diff)
		}
	}
}
