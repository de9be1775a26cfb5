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

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambit-sol/gambit/internal/compiler"
	"github.com/gambit-sol/gambit/internal/pipeline"
	"github.com/gambit-sol/gambit/internal/report"
)

const fakeSolc = `#!/bin/sh
outdir=""
mode="full"
file=""
while [ $# -gt 0 ]; do
  case "$1" in
    --ast-compact-json) mode="ast" ;;
    --output-dir) shift; outdir="$1" ;;
    --stop-after) shift ;;
    --base-path) shift ;;
    --allow-paths) shift ;;
    --include-path) shift ;;
    --overwrite) ;;
    --optimize) ;;
    *.sol) file="$1" ;;
  esac
  shift
done
mkdir -p "$outdir"
if [ "$mode" = "ast" ]; then
  stem=$(basename "$file" .sol)
  cat > "$outdir/${stem}.sol_json.ast" <<'EOF'
{"nodeType":"SourceUnit","src":"0:5:0","nodes":[{"nodeType":"BinaryOperation","src":"0:5:0","operator":"+","leftExpression":{"nodeType":"Literal","src":"0:1:0"},"rightExpression":{"nodeType":"Literal","src":"4:1:0"}}]}
EOF
fi
exit "${FAKE_SOLC_EXIT:-0}"
`

func writeFakeSolc(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-solc.sh")
	require.NoError(t, os.WriteFile(path, []byte(fakeSolc), 0o755)) //nolint:gosec

	return path
}

func writeSourceFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestRunWritesResultsAndExportsMutants(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	srcFile := writeSourceFile(t, srcDir, "Foo.sol", "1 + 2")
	outDir := filepath.Join(t.TempDir(), "out")

	params := []pipeline.Params{{
		Filename:  srcFile,
		OutputDir: outDir,
		Export:    true,
		Compiler:  compiler.Options{Binary: writeFakeSolc(t)},
	}}

	require.NoError(t, pipeline.Run(context.Background(), params))

	entries, err := report.ReadResults(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	for _, e := range entries {
		assert.Equal(t, "BinaryOpMutation", e.Description)
		_, err := os.Stat(filepath.Join(outDir, e.Name))
		assert.NoError(t, err)
	}
}

func TestRunSkipValidateKeepsAllMutants(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	srcFile := writeSourceFile(t, srcDir, "Foo.sol", "1 + 2")
	outDir := filepath.Join(t.TempDir(), "out")

	params := []pipeline.Params{{
		Filename:     srcFile,
		OutputDir:    outDir,
		SkipValidate: true,
		Compiler:     compiler.Options{Binary: writeFakeSolc(t)},
	}}

	require.NoError(t, pipeline.Run(context.Background(), params))

	entries, err := report.ReadResults(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRunDownSampleIsDeterministic(t *testing.T) {
	t.Parallel()
	bin := writeFakeSolc(t)

	run := func() []report.Entry {
		srcDir := t.TempDir()
		srcFile := writeSourceFile(t, srcDir, "Foo.sol", "1 + 2")
		outDir := filepath.Join(t.TempDir(), "out")

		params := []pipeline.Params{{
			Filename:   srcFile,
			OutputDir:  outDir,
			NumMutants: 2,
			Seed:       7,
			Compiler:   compiler.Options{Binary: bin},
		}}
		require.NoError(t, pipeline.Run(context.Background(), params))

		entries, err := report.ReadResults(outDir)
		require.NoError(t, err)

		return entries
	}

	first := run()
	second := run()

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestRunInvalidMutantsDroppedAndLogged(t *testing.T) {
	t.Setenv("FAKE_SOLC_EXIT", "1")
	srcDir := t.TempDir()
	srcFile := writeSourceFile(t, srcDir, "Foo.sol", "1 + 2")
	outDir := filepath.Join(t.TempDir(), "out")

	params := []pipeline.Params{{
		Filename:  srcFile,
		OutputDir: outDir,
		Compiler:  compiler.Options{Binary: writeFakeSolc(t)},
	}}

	require.NoError(t, pipeline.Run(context.Background(), params))

	entries, err := report.ReadResults(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(report.InvalidLogPath(outDir))
	assert.NoError(t, err)
}

func TestRunSkipsExistingDirWithoutOverwrite(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	srcFile := writeSourceFile(t, srcDir, "Foo.sol", "1 + 2")
	parent := t.TempDir()
	outDir := filepath.Join(parent, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	sentinel := filepath.Join(outDir, "keepme")
	require.NoError(t, os.WriteFile(sentinel, []byte("x"), 0o600))

	params := []pipeline.Params{{
		Filename:  srcFile,
		OutputDir: outDir,
		Overwrite: false,
		Compiler:  compiler.Options{Binary: writeFakeSolc(t)},
	}}

	require.NoError(t, pipeline.Run(context.Background(), params))

	_, err := os.Stat(sentinel)
	assert.NoError(t, err, "existing directory must be left untouched without --overwrite")
}

func TestRunGroupsByOutputDirectory(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	fileA := writeSourceFile(t, srcDir, "A.sol", "1 + 2")
	fileB := writeSourceFile(t, srcDir, "B.sol", "1 + 2")
	outA := filepath.Join(t.TempDir(), "a")
	outB := filepath.Join(t.TempDir(), "b")

	bin := writeFakeSolc(t)
	params := []pipeline.Params{
		{Filename: fileA, OutputDir: outA, Compiler: compiler.Options{Binary: bin}},
		{Filename: fileB, OutputDir: outB, Compiler: compiler.Options{Binary: bin}},
	}

	require.NoError(t, pipeline.Run(context.Background(), params))

	entriesA, err := report.ReadResults(outA)
	require.NoError(t, err)
	entriesB, err := report.ReadResults(outB)
	require.NoError(t, err)

	assert.Len(t, entriesA, 4)
	assert.Len(t, entriesB, 4)
	assert.Equal(t, 1, entriesA[0].ID)
	assert.Equal(t, 1, entriesB[0].ID)
}
