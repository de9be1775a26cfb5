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

// Package operator holds the closed catalog of mutation operators: each
// recognizes a shape of AST node and produces one or more replacement
// texts for the byte range it identifies.
package operator

import (
	gast "github.com/gambit-sol/gambit/internal/ast"
)

// Operator is a single named source-level transformation.
//
// AppliesTo is a pure predicate. Range and Mutate are only ever called on
// nodes for which AppliesTo returned true, and must be deterministic: the
// same (node, source) pair always yields the same range and the same
// ordered sequence of replacements.
type Operator interface {
	// ShortName is the stable label used in reports and filenames.
	ShortName() string

	// AppliesTo reports whether this operator recognizes n.
	AppliesTo(n gast.Node) bool

	// Range returns the half-open byte range of source this operator's
	// replacements splice into, for a node AppliesTo accepted.
	Range(n gast.Node) (start, end int, err error)

	// Mutate returns the ordered sequence of replacement texts for n. It
	// may return zero, one, or many strings.
	Mutate(n gast.Node, src []byte) ([]string, error)
}

// Default returns the full built-in operator catalog, in catalog
// declaration order: within a node, operators apply in the order they're
// declared here.
func Default() []Operator {
	return []Operator{
		BinaryOpMutation{},
		RequireMutation{},
	}
}

// ByNames filters the default catalog down to the operators whose
// ShortName is in names. An empty names list returns the full catalog,
// the "no allowlist configured" case.
func ByNames(names []string) []Operator {
	all := Default()
	if len(names) == 0 {
		return all
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []Operator
	for _, op := range all {
		if want[op.ShortName()] {
			out = append(out, op)
		}
	}

	return out
}
