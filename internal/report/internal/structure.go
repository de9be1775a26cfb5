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

// Package internal holds the wire structures report marshals and
// unmarshals, kept separate from the package's behavior the way the
// upstream report package separates its JSON shape from its logic.
package internal

// Entry is one surviving mutant as recorded in an output directory's
// gambit_results.json. Id is quoted in the wire format.
type Entry struct {
	ID          int    `json:"id,string"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Diff        string `json:"diff"`
}

// OperatorCount pairs an operator's short name with how many surviving
// mutants it produced.
type OperatorCount struct {
	Operator string `json:"operator"`
	Count    int    `json:"count"`
}
