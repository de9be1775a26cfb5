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
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"

	"github.com/gambit-sol/gambit/internal/log"
	"github.com/gambit-sol/gambit/internal/mutant"
	"github.com/gambit-sol/gambit/internal/report/internal"
)

var (
	fgGreen = color.New(color.FgGreen).SprintFunc()
	fgRed   = color.New(color.FgRed).SprintFunc()
)

// Stats aggregates one run's mutants by outcome, operator and source file,
// the figures the mutate subcommand prints when it finishes.
type Stats struct {
	Valid      int
	Invalid    int
	ByOperator map[string]int
	ByFile     map[string]int
	Elapsed    time.Duration
}

// NewStats builds Stats from the mutants a pipeline run produced. valid and
// invalid are disjoint and are counted as given: a mutant's bucket is the
// slice it was passed in, its Status is not consulted.
func NewStats(valid, invalid []*mutant.Mutant, elapsed time.Duration) Stats {
	s := Stats{
		Valid:      len(valid),
		Invalid:    len(invalid),
		ByOperator: map[string]int{},
		ByFile:     map[string]int{},
		Elapsed:    elapsed,
	}

	for _, m := range append(append([]*mutant.Mutant{}, valid...), invalid...) {
		s.ByOperator[m.ShortName()]++
		s.ByFile[m.Source().Filename()]++
	}

	return s
}

// Log prints the run's outcome the way the mutate subcommand reports it:
// totals first, then a per-operator and per-file breakdown, in
// deterministic (sorted) order.
func (s Stats) Log() {
	elapsed := durafmt.Parse(s.Elapsed).LimitFirstN(2)
	log.Infoln("")
	log.Infof("Mutation testing completed in %s\n", elapsed.String())
	log.Infof("Valid: %s, Invalid: %s\n", fgGreen(s.Valid), fgRed(s.Invalid))

	for _, oc := range s.OperatorCounts() {
		log.Infof("  %s: %d\n", oc.Operator, oc.Count)
	}
	for _, f := range sortedKeys(s.ByFile) {
		log.Infof("  %s: %d\n", f, s.ByFile[f])
	}
}

// OperatorCounts returns s.ByOperator as a slice sorted by operator name,
// the shape a machine-readable summary would serialize.
func (s Stats) OperatorCounts() []internal.OperatorCount {
	counts := make([]internal.OperatorCount, 0, len(s.ByOperator))
	for _, op := range sortedKeys(s.ByOperator) {
		counts = append(counts, internal.OperatorCount{Operator: op, Count: s.ByOperator[op]})
	}

	return counts
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
