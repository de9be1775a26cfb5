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

import (
	"fmt"

	gast "github.com/gambit-sol/gambit/internal/ast"
)

// RequireMutation wraps the first argument of a require(...) call in a
// logical negation.
type RequireMutation struct{}

// ShortName implements Operator.
func (RequireMutation) ShortName() string { return "RequireMutation" }

// AppliesTo implements Operator.
func (RequireMutation) AppliesTo(n gast.Node) bool {
	if n.NodeType() != "FunctionCall" {
		return false
	}

	exp, ok := n.Expression()
	if !ok {
		return false
	}
	name, ok := exp.Name()
	if !ok || name != "require" {
		return false
	}

	return len(n.Arguments()) > 0
}

// Range returns the byte range of the first argument.
func (RequireMutation) Range(n gast.Node) (start, end int, err error) {
	args := n.Arguments()
	if len(args) == 0 {
		return 0, 0, fmt.Errorf("RequireMutation: require() call has no arguments")
	}

	return args[0].Bounds()
}

// Mutate returns the single replacement "!(<original argument text>)".
func (RequireMutation) Mutate(n gast.Node, src []byte) ([]string, error) {
	args := n.Arguments()
	if len(args) == 0 {
		return nil, fmt.Errorf("RequireMutation: require() call has no arguments")
	}

	text, err := args[0].Text(src)
	if err != nil {
		return nil, err
	}

	return []string{"!(" + text + ")"}, nil
}
