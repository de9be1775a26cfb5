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

package mutant_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambit-sol/gambit/internal/mutant"
	"github.com/gambit-sol/gambit/internal/operator"
	"github.com/gambit-sol/gambit/internal/source"
)

func TestNewRejectsOutOfBoundsRange(t *testing.T) {
	t.Parallel()
	src := source.FromBytes("f.sol", []byte("1 + 2"))

	_, err := mutant.New(src, operator.BinaryOpMutation{}, 2, 100, " - ")

	assert.Error(t, err)
}

func TestMutatedSourcePreservesUntouchedBytes(t *testing.T) {
	t.Parallel()
	src := source.FromBytes("f.sol", []byte("1 + 2"))

	m, err := mutant.New(src, operator.BinaryOpMutation{}, 1, 4, " - ")
	require.NoError(t, err)

	got := m.MutatedSource()

	assert.Equal(t, "1 - 2", string(got))
	assert.Equal(t, byte('1'), got[0])
	assert.Equal(t, byte('2'), got[len(got)-1])
}

func TestPosition(t *testing.T) {
	t.Parallel()
	src := source.FromBytes("f.sol", []byte("line1\nx + y"))

	m, err := mutant.New(src, operator.BinaryOpMutation{}, 8, 9, " - ")
	require.NoError(t, err)

	line, col := m.Position()

	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}

func TestAnnotatedSourceInsertsCommentBeforeChangedLine(t *testing.T) {
	t.Parallel()
	src := source.FromBytes("f.sol", []byte("contract C {\n  function f() public pure returns (uint) {\n    return 1 + 2;\n  }\n}\n"))

	start := indexOf(t, src, "+")
	m, err := mutant.New(src, operator.BinaryOpMutation{}, start, start+1, "-")
	require.NoError(t, err)

	got := string(m.AnnotatedSource())

	assert.Contains(t, got, "    /// BinaryOpMutation of: return 1 + 2;\n")
	assert.Contains(t, got, "    return 1 - 2;\n")
	// the comment must precede the changed line, and the rest of the file
	// must be untouched.
	assert.True(t, strings.Index(got, "/// BinaryOpMutation") < strings.Index(got, "return 1 - 2;"))
	assert.Equal(t, "contract C {\n", got[:len("contract C {\n")])
}

func indexOf(t *testing.T, src *source.Source, needle string) int {
	t.Helper()
	i := bytes.Index(src.Contents(), []byte(needle))
	require.GreaterOrEqual(t, i, 0)

	return i
}

func TestStatusDefaultsToPending(t *testing.T) {
	t.Parallel()
	src := source.FromBytes("f.sol", []byte("1 + 2"))
	m, err := mutant.New(src, operator.BinaryOpMutation{}, 1, 4, " - ")
	require.NoError(t, err)

	assert.Equal(t, mutant.Pending, m.Status())

	m.SetStatus(mutant.Valid)
	assert.Equal(t, mutant.Valid, m.Status())
}
