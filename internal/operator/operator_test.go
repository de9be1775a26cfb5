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

package operator_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gast "github.com/gambit-sol/gambit/internal/ast"
	"github.com/gambit-sol/gambit/internal/operator"
)

func decode(t *testing.T, j string) gast.Node {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(j), &m))

	return gast.New(m)
}

func TestBinaryOpMutationAppliesTo(t *testing.T) {
	t.Parallel()
	op := operator.BinaryOpMutation{}

	bin := decode(t, `{"nodeType":"BinaryOperation","src":"0:5:0"}`)
	assert.True(t, op.AppliesTo(bin))

	other := decode(t, `{"nodeType":"Identifier","src":"0:1:0"}`)
	assert.False(t, op.AppliesTo(other))
}

func TestBinaryOpMutationMutate(t *testing.T) {
	t.Parallel()
	op := operator.BinaryOpMutation{}
	src := []byte("1 + 2")
	n := decode(t, `{
		"nodeType":"BinaryOperation",
		"src":"0:5:0",
		"operator":"+",
		"leftExpression":{"nodeType":"Literal","src":"0:1:0"},
		"rightExpression":{"nodeType":"Literal","src":"4:1:0"}
	}`)

	start, end, err := op.Range(n)
	require.NoError(t, err)
	assert.Equal(t, " + ", string(src[start:end]))

	repls, err := op.Mutate(n, src)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{" - ", " * ", " / ", " % "}, repls)
	assert.NotContains(t, repls, " + ")
}

func TestBinaryOpMutationDeterministic(t *testing.T) {
	t.Parallel()
	op := operator.BinaryOpMutation{}
	n := decode(t, `{
		"nodeType":"BinaryOperation","src":"0:5:0","operator":"<",
		"leftExpression":{"nodeType":"Literal","src":"0:1:0"},
		"rightExpression":{"nodeType":"Literal","src":"4:1:0"}
	}`)

	first, err := op.Mutate(n, nil)
	require.NoError(t, err)
	second, err := op.Mutate(n, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRequireMutationAppliesTo(t *testing.T) {
	t.Parallel()
	op := operator.RequireMutation{}

	call := decode(t, `{
		"nodeType":"FunctionCall","src":"0:10:0",
		"expression":{"nodeType":"Identifier","name":"require","src":"0:7:0"},
		"arguments":[{"nodeType":"BinaryOperation","src":"8:5:0"}]
	}`)
	assert.True(t, op.AppliesTo(call))

	noArgs := decode(t, `{
		"nodeType":"FunctionCall","src":"0:10:0",
		"expression":{"nodeType":"Identifier","name":"require","src":"0:7:0"},
		"arguments":[]
	}`)
	assert.False(t, op.AppliesTo(noArgs))

	notRequire := decode(t, `{
		"nodeType":"FunctionCall","src":"0:10:0",
		"expression":{"nodeType":"Identifier","name":"assert","src":"0:6:0"},
		"arguments":[{"nodeType":"BinaryOperation","src":"7:5:0"}]
	}`)
	assert.False(t, op.AppliesTo(notRequire))
}

func TestRequireMutationMutate(t *testing.T) {
	t.Parallel()
	op := operator.RequireMutation{}
	src := []byte("require(x > 0)")
	call := decode(t, `{
		"nodeType":"FunctionCall","src":"0:14:0",
		"expression":{"nodeType":"Identifier","name":"require","src":"0:7:0"},
		"arguments":[{"nodeType":"BinaryOperation","src":"8:5:0"}]
	}`)

	start, end, err := op.Range(call)
	require.NoError(t, err)
	assert.Equal(t, "x > 0", string(src[start:end]))

	repls, err := op.Mutate(call, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"!(x > 0)"}, repls)
}

func TestByNames(t *testing.T) {
	t.Parallel()

	all := operator.ByNames(nil)
	assert.Len(t, all, 2)

	only := operator.ByNames([]string{"RequireMutation"})
	require.Len(t, only, 1)
	assert.Equal(t, "RequireMutation", only[0].ShortName())
}
