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

// Package ast wraps the compact JSON AST produced by solc into a navigable
// Node with typed accessors for the node shapes the mutation engine
// inspects, and a single filtered-traversal combinator.
package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// namedSlots lists the child slots every operator in the catalog keys on,
// in traversal priority order. They are visited before any other field of
// a node so that the documented shapes traverse in their natural order.
var namedSlots = []string{
	"expression",
	"leftExpression",
	"rightExpression",
	"leftHandSide",
	"rightHandSide",
	"condition",
	"trueBody",
	"falseBody",
	"arguments",
	"statements",
	// solc nests contract members and function bodies under these two
	// generic slots; without them a traversal starting at the SourceUnit
	// would never reach a ContractDefinition's functions or a function's
	// statements.
	"body",
	"nodes",
}

var namedSlotIndex = func() map[string]int {
	m := make(map[string]int, len(namedSlots))
	for i, s := range namedSlots {
		m[s] = i
	}

	return m
}()

// Node is a read-only view over one object of the parsed AST JSON.
type Node struct {
	raw map[string]any
}

// New wraps a decoded JSON object as a Node.
func New(raw map[string]any) Node {
	return Node{raw: raw}
}

// IsZero reports whether the Node wraps no JSON object.
func (n Node) IsZero() bool {
	return n.raw == nil
}

// NodeType returns the `nodeType` discriminant, e.g. "BinaryOperation".
func (n Node) NodeType() string {
	v, _ := n.raw["nodeType"].(string)

	return v
}

// Name returns the node's `name` attribute, if any.
func (n Node) Name() (string, bool) {
	v, ok := n.raw["name"].(string)

	return v, ok
}

// Bounds decodes the `src` attribute ("start:length:file_index") into a
// half-open byte range [start, end). It fails loudly: a missing or
// malformed src is a bug in the AST producer, not a recoverable condition.
func (n Node) Bounds() (start, end int, err error) {
	raw, ok := n.raw["src"].(string)
	if !ok {
		return 0, 0, fmt.Errorf("ast: node %s has no src attribute", n.NodeType())
	}

	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("ast: malformed src %q on node %s", raw, n.NodeType())
	}

	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("ast: malformed src %q on node %s: %w", raw, n.NodeType(), err)
	}

	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("ast: malformed src %q on node %s: %w", raw, n.NodeType(), err)
	}

	return start, start + length, nil
}

// Text extracts and UTF-8 decodes source[start:end] for this node's bounds.
func (n Node) Text(src []byte) (string, error) {
	start, end, err := n.Bounds()
	if err != nil {
		return "", err
	}
	if start < 0 || end > len(src) || start > end {
		return "", fmt.Errorf("ast: bounds [%d:%d) out of range for %d-byte source", start, end, len(src))
	}

	b := src[start:end]
	if !utf8.Valid(b) {
		return "", fmt.Errorf("ast: node %s text is not valid UTF-8", n.NodeType())
	}

	return string(b), nil
}

// Attr returns a top-level string attribute of the node, e.g. "operator".
func (n Node) Attr(key string) (string, bool) {
	v, ok := n.raw[key].(string)

	return v, ok
}

// TypeDescriptions returns the `typeDescriptions.typeString` metadata
// attached to expression nodes, when present.
func (n Node) TypeDescriptions() (string, bool) {
	td, ok := n.raw["typeDescriptions"].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := td["typeString"].(string)

	return s, ok
}

// Child returns the single-node child slot named by key, e.g. "expression".
func (n Node) Child(key string) (Node, bool) {
	v, ok := n.raw[key]
	if !ok || v == nil {
		return Node{}, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Node{}, false
	}

	return New(m), true
}

// Children returns the ordered-sequence child slot named by key, e.g.
// "arguments" or "statements".
func (n Node) Children(key string) []Node {
	v, ok := n.raw[key]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]Node, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, New(m))
		}
	}

	return out
}

// Expression, LeftExpression, RightExpression, LeftHandSide, RightHandSide,
// Condition, TrueBody and FalseBody are typed accessors for the common
// single-node child slots solc's AST emits.
func (n Node) Expression() (Node, bool)      { return n.Child("expression") }
func (n Node) LeftExpression() (Node, bool)  { return n.Child("leftExpression") }
func (n Node) RightExpression() (Node, bool) { return n.Child("rightExpression") }
func (n Node) LeftHandSide() (Node, bool)    { return n.Child("leftHandSide") }
func (n Node) RightHandSide() (Node, bool)   { return n.Child("rightHandSide") }
func (n Node) Condition() (Node, bool)       { return n.Child("condition") }
func (n Node) TrueBody() (Node, bool)        { return n.Child("trueBody") }
func (n Node) FalseBody() (Node, bool)       { return n.Child("falseBody") }

// Arguments and Statements are typed accessors for the common
// ordered-sequence child slots solc's AST emits.
func (n Node) Arguments() []Node { return n.Children("arguments") }
func (n Node) Statements() []Node {
	if body, ok := n.Child("body"); ok {
		if s := body.Children("statements"); s != nil {
			return s
		}
	}

	return n.Children("statements")
}

// VisitFunc inspects an accepted node and returns zero or more results to
// append to the traversal output.
type VisitFunc[T any] func(n Node) []T

// SkipFunc reports whether a node, and its whole subtree, must not be
// visited.
type SkipFunc func(n Node) bool

// AcceptFunc reports whether a node starts the "accepted" scope. Once a
// node is accepted, every descendant is accepted too (the flag is sticky).
type AcceptFunc func(n Node) bool

// Traverse walks the tree rooted at n, depth-first pre-order, and collects
// visit's results over the region where accept has fired and skip hasn't.
//
// Rule ordering: accept is evaluated before skip, skip excludes the whole
// subtree, and visit only runs once the accepted flag (inherited by
// descendants) is set.
func Traverse[T any](n Node, visit VisitFunc[T], skip SkipFunc, accept AcceptFunc) []T {
	var out []T

	var walk func(node Node, accepted bool)
	walk = func(node Node, accepted bool) {
		if accept(node) {
			accepted = true
		}
		if skip(node) {
			return
		}
		if accepted {
			out = append(out, visit(node)...)
		}

		for _, child := range orderedChildren(node) {
			walk(child, accepted)
		}
	}

	walk(n, false)

	return out
}

// orderedChildren enumerates every object/array-of-object field of node,
// named slots first in the order namedSlots lists them, then any remaining
// fields in alphabetical order for determinism.
func orderedChildren(node Node) []Node {
	var out []Node

	var extraKeys []string
	for k := range node.raw {
		if _, known := namedSlotIndex[k]; known {
			continue
		}
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)

	appendKey := func(k string) {
		if c, ok := node.Child(k); ok {
			out = append(out, c)

			return
		}
		out = append(out, node.Children(k)...)
	}

	for _, k := range namedSlots {
		appendKey(k)
	}
	for _, k := range extraKeys {
		appendKey(k)
	}

	return out
}
