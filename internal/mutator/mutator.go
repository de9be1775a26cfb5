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

// Package mutator orchestrates, for a single source file, the traversal
// of its AST against the operator catalog, enforcing contract/function
// scope and assert exclusion, and de-duplicating the resulting mutants.
package mutator

import (
	gast "github.com/gambit-sol/gambit/internal/ast"
	"github.com/gambit-sol/gambit/internal/log"
	"github.com/gambit-sol/gambit/internal/mutant"
	"github.com/gambit-sol/gambit/internal/operator"
	"github.com/gambit-sol/gambit/internal/source"
)

// Mutator runs the operator catalog over one file's AST.
type Mutator struct {
	src       *source.Source
	root      gast.Node
	operators []operator.Operator
	contract  string
	functions map[string]struct{}
}

// New builds a Mutator for src, whose parsed AST root is root. An empty
// contract or functions means "no restriction".
func New(src *source.Source, root gast.Node, operators []operator.Operator, contract string, functions []string) *Mutator {
	var fnSet map[string]struct{}
	if len(functions) > 0 {
		fnSet = make(map[string]struct{}, len(functions))
		for _, f := range functions {
			fnSet[f] = struct{}{}
		}
	}

	return &Mutator{
		src:       src,
		root:      root,
		operators: operators,
		contract:  contract,
		functions: fnSet,
	}
}

// Mutate traverses the AST under scope, collects every operator match,
// then de-duplicates by mutated buffer with the unmodified source as a
// sentinel.
func (mu *Mutator) Mutate() ([]*mutant.Mutant, error) {
	var contractBounds *[2]int
	if mu.contract != "" {
		if start, end, ok := findContractBounds(mu.root, mu.contract); ok {
			contractBounds = &[2]int{start, end}
		} else {
			// No contract in this file matches; nothing is in scope.
			return nil, nil
		}
	}

	accept := mu.acceptFunc(contractBounds)
	skip := func(n gast.Node) bool { return IsAssertCall(n) }
	visit := mu.visitFunc()

	candidates := gast.Traverse(mu.root, visit, skip, accept)

	return dedup(mu.src, candidates), nil
}

// acceptFunc builds the scope predicate: accept fires at the root when
// neither contract nor function restriction is set, otherwise at each
// FunctionDefinition whose name is allowed and whose byte range falls
// inside the matching contract (when one was configured). Contract and
// function scope are independent predicates, ANDed through range
// containment rather than ancestor tracking, since source ranges nest
// exactly the way the AST does.
func (mu *Mutator) acceptFunc(contractBounds *[2]int) gast.AcceptFunc {
	return func(n gast.Node) bool {
		if mu.contract == "" && mu.functions == nil {
			return n.NodeType() == "SourceUnit"
		}

		switch n.NodeType() {
		case "ContractDefinition":
			if mu.functions != nil {
				// Function restriction narrows further below; don't
				// accept the whole contract body here.
				return false
			}
			name, ok := n.Name()

			return ok && mu.contract != "" && name == mu.contract
		case "FunctionDefinition":
			name, ok := n.Name()
			if !ok {
				return false
			}
			if mu.functions != nil {
				if _, allowed := mu.functions[name]; !allowed {
					return false
				}
			}
			if contractBounds != nil {
				start, end, err := n.Bounds()
				if err != nil {
					return false
				}
				if start < contractBounds[0] || end > contractBounds[1] {
					return false
				}
			}

			return true
		default:
			return false
		}
	}
}

// visitFunc enumerates, for an accepted node, every operator that
// applies and every replacement it produces.
func (mu *Mutator) visitFunc() gast.VisitFunc[*mutant.Mutant] {
	return func(n gast.Node) []*mutant.Mutant {
		var out []*mutant.Mutant
		for _, op := range mu.operators {
			if !op.AppliesTo(n) {
				continue
			}

			start, end, err := op.Range(n)
			if err != nil {
				log.Errorf("%s: %s\n", op.ShortName(), err)

				continue
			}

			replacements, err := op.Mutate(n, mu.src.Contents())
			if err != nil {
				log.Errorf("%s: %s\n", op.ShortName(), err)

				continue
			}

			for _, repl := range replacements {
				m, err := mutant.New(mu.src, op, start, end, repl)
				if err != nil {
					log.Errorf("%s: %s\n", op.ShortName(), err)

					continue
				}
				out = append(out, m)
			}
		}

		return out
	}
}

// IsAssertCall reports whether n is a call to the assert(...) builtin.
// Assert calls are excluded from mutation: mutating them conflates with
// intended assertion behavior.
func IsAssertCall(n gast.Node) bool {
	if n.NodeType() != "FunctionCall" {
		return false
	}
	exp, ok := n.Expression()
	if !ok {
		return false
	}
	name, ok := exp.Name()

	return ok && name == "assert"
}

// dedup removes mutants whose mutated buffer collides with another
// mutant's, or with the original source, which is seeded into the dedup
// set as a sentinel.
func dedup(src *source.Source, candidates []*mutant.Mutant) []*mutant.Mutant {
	seen := map[string]struct{}{
		string(src.Contents()): {},
	}

	out := make([]*mutant.Mutant, 0, len(candidates))
	for _, m := range candidates {
		key := string(m.MutatedSource())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}

	return out
}

// findContractBounds searches the tree rooted at n for a ContractDefinition
// named name and returns its byte range. solc nests contract members and
// a SourceUnit's top-level declarations under the "nodes" slot.
func findContractBounds(n gast.Node, name string) (start, end int, ok bool) {
	if n.NodeType() == "ContractDefinition" {
		if nm, hasName := n.Name(); hasName && nm == name {
			s, e, err := n.Bounds()
			if err == nil {
				return s, e, true
			}
		}
	}
	for _, child := range n.Children("nodes") {
		if s, e, found := findContractBounds(child, name); found {
			return s, e, found
		}
	}

	return 0, 0, false
}
