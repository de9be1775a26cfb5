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

package operator

// binaryOperatorCategories groups the operator tokens BinaryOpMutation
// knows about. Each operator in a category is a valid replacement for any
// other operator in the same category; replacing an operator with itself
// is never offered (see BinaryOpMutation.Mutate).
var binaryOperatorCategories = [][]string{
	{"+", "-", "*", "/", "%"},
	{"<", "<=", ">", ">=", "==", "!="},
	{"&&", "||"},
	{"&", "|", "^"},
	{"<<", ">>"},
}

// binaryOperatorAlternatives maps each supported operator token to the
// ordered list of its replacement candidates (excluding itself).
var binaryOperatorAlternatives = buildAlternatives()

func buildAlternatives() map[string][]string {
	out := make(map[string][]string)
	for _, category := range binaryOperatorCategories {
		for _, op := range category {
			var alts []string
			for _, other := range category {
				if other == op {
					continue
				}
				alts = append(alts, other)
			}
			out[op] = alts
		}
	}

	return out
}
