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

package mutator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambit-sol/gambit/internal/compiler"
	"github.com/gambit-sol/gambit/internal/mutant"
	"github.com/gambit-sol/gambit/internal/mutator"
	"github.com/gambit-sol/gambit/internal/operator"
	"github.com/gambit-sol/gambit/internal/source"
	"github.com/gambit-sol/gambit/internal/workdir"
)

const fakeSolc = `#!/bin/sh
outdir=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output-dir) shift; outdir="$1" ;;
    --overwrite) ;;
    *) ;;
  esac
  shift
done
mkdir -p "$outdir"
exit "${FAKE_SOLC_EXIT:-0}"
`

func writeFakeSolc(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-solc.sh")
	require.NoError(t, os.WriteFile(path, []byte(fakeSolc), 0o755)) //nolint:gosec

	return path
}

func TestValidatorValidateSuccess(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "Foo.sol")
	require.NoError(t, os.WriteFile(srcFile, []byte("1 + 2"), 0o600))

	workDir := t.TempDir()
	dealer := workdir.NewCachedDealer(workDir, srcDir)
	driver := compiler.New(compiler.Options{Binary: writeFakeSolc(t)})
	validator := mutator.NewValidator(driver, dealer)

	src := source.FromBytes(srcFile, []byte("1 + 2"))
	m, err := mutant.New(src, operator.BinaryOpMutation{}, 1, 4, " - ")
	require.NoError(t, err)

	assert.True(t, validator.Validate(context.Background(), m))
}

func TestValidatorValidateFailure(t *testing.T) {
	t.Setenv("FAKE_SOLC_EXIT", "1")
	srcDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "Foo.sol")
	require.NoError(t, os.WriteFile(srcFile, []byte("1 + 2"), 0o600))

	workDir := t.TempDir()
	dealer := workdir.NewCachedDealer(workDir, srcDir)
	driver := compiler.New(compiler.Options{Binary: writeFakeSolc(t)})
	validator := mutator.NewValidator(driver, dealer)

	src := source.FromBytes(srcFile, []byte("1 + 2"))
	m, err := mutant.New(src, operator.BinaryOpMutation{}, 1, 4, " - ")
	require.NoError(t, err)

	assert.False(t, validator.Validate(context.Background(), m))
}

func TestGetValidMutantsPartitions(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	srcFile := filepath.Join(srcDir, "Foo.sol")
	require.NoError(t, os.WriteFile(srcFile, []byte("1 + 2"), 0o600))

	workDir := t.TempDir()
	dealer := workdir.NewCachedDealer(workDir, srcDir)
	driver := compiler.New(compiler.Options{Binary: writeFakeSolc(t)})
	validator := mutator.NewValidator(driver, dealer)

	src := source.FromBytes(srcFile, []byte("1 + 2"))
	m1, err := mutant.New(src, operator.BinaryOpMutation{}, 1, 4, " - ")
	require.NoError(t, err)
	m2, err := mutant.New(src, operator.BinaryOpMutation{}, 1, 4, " * ")
	require.NoError(t, err)

	valid, invalid := validator.GetValidMutants(context.Background(), []*mutant.Mutant{m1, m2})

	assert.Len(t, valid, 2)
	assert.Empty(t, invalid)
	assert.Equal(t, mutant.Valid, m1.Status())
	assert.Equal(t, mutant.Valid, m2.Status())
}
