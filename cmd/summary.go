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

package cmd

import (
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/gambit-sol/gambit/cmd/internal/flags"
	"github.com/gambit-sol/gambit/internal/configuration"
	"github.com/gambit-sol/gambit/internal/execution"
	"github.com/gambit-sol/gambit/internal/report"
)

type summaryCmd struct {
	cmd *cobra.Command
}

const (
	summaryCommandName = "summary"

	paramMids = "mids"
)

func newSummaryCmd() (*summaryCmd, error) {
	cmd := &cobra.Command{
		Use:   summaryCommandName + " [directory]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Print a human readable summary of a mutation run",
		Long:  summaryLongExplainer(),
		RunE:  runSummary,
	}

	fls := []*flags.Flag{
		{Name: paramMids, CfgKey: configuration.SummaryMutantIDsKey, DefaultV: []string(nil), Usage: "restrict the summary to these mutant ids"},
	}
	for _, f := range fls {
		if err := flags.Set(cmd, f); err != nil {
			return nil, err
		}
	}

	return &summaryCmd{cmd: cmd}, nil
}

func summaryLongExplainer() string {
	return heredoc.Doc(`
		Summary reads a mutation directory's gambit_results.json and prints
		each surviving mutant's id, description and unified diff.

		Pass --mids with a comma-separated list of ids to restrict the
		summary to a subset of mutants.
	`)
}

func runSummary(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	entries, err := report.ReadResults(dir)
	if err != nil {
		return execution.NewExitErr(execution.IOError, err)
	}

	mids, err := parseMids(configuration.Get[[]string](configuration.SummaryMutantIDsKey))
	if err != nil {
		return execution.NewExitErr(execution.ConfigurationError, err)
	}

	report.Summary(cmd.OutOrStdout(), entries, mids)

	return nil
}

func parseMids(raw []string) (map[int]struct{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	mids := make(map[int]struct{}, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := strconv.Atoi(r)
		if err != nil {
			return nil, err
		}
		mids[id] = struct{}{}
	}

	return mids, nil
}
