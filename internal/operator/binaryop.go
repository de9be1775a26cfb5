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

// BinaryOpMutation replaces the operator token of a BinaryOperation with
// each of its alternatives.
type BinaryOpMutation struct{}

// ShortName implements Operator.
func (BinaryOpMutation) ShortName() string { return "BinaryOpMutation" }

// AppliesTo implements Operator.
func (BinaryOpMutation) AppliesTo(n gast.Node) bool {
	return n.NodeType() == "BinaryOperation"
}

// Range returns the byte range strictly between the end of leftExpression
// and the start of rightExpression: the operator token slot, including
// its surrounding whitespace.
func (BinaryOpMutation) Range(n gast.Node) (start, end int, err error) {
	left, ok := n.LeftExpression()
	if !ok {
		return 0, 0, fmt.Errorf("BinaryOpMutation: node has no leftExpression")
	}
	right, ok := n.RightExpression()
	if !ok {
		return 0, 0, fmt.Errorf("BinaryOpMutation: node has no rightExpression")
	}

	_, lEnd, err := left.Bounds()
	if err != nil {
		return 0, 0, err
	}
	rStart, _, err := right.Bounds()
	if err != nil {
		return 0, 0, err
	}

	return lEnd, rStart, nil
}

// Mutate returns one replacement per alternative operator in the same
// category as the original, each padded with a single leading and
// trailing space to preserve the whitespace the original token slot had.
// The original operator is never among the alternatives.
func (BinaryOpMutation) Mutate(n gast.Node, _ []byte) ([]string, error) {
	op, ok := n.Attr("operator")
	if !ok {
		return nil, fmt.Errorf("BinaryOpMutation: node has no operator attribute")
	}

	alts := binaryOperatorAlternatives[op]
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		out = append(out, " "+alt+" ")
	}

	return out, nil
}
