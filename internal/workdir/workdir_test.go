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

package workdir_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hectane/go-acl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambit-sol/gambit/internal/workdir"
)

func populateSrcDir(t *testing.T, srcDir string) {
	t.Helper()
	require.NoError(t, os.Mkdir(filepath.Join(srcDir, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.sol"), []byte("contract A {}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "b.sol"), []byte("contract B {}"), 0o600))
}

func TestGetCopiesTree(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	populateSrcDir(t, srcDir)
	workDir := t.TempDir()

	dealer := workdir.NewCachedDealer(workDir, srcDir)

	dstDir, err := dealer.Get()
	require.NoError(t, err)
	defer dealer.Clean()

	got, err := os.ReadFile(filepath.Join(dstDir, "a.sol"))
	require.NoError(t, err)
	assert.Equal(t, "contract A {}", string(got))

	got, err = os.ReadFile(filepath.Join(dstDir, "sub", "b.sol"))
	require.NoError(t, err)
	assert.Equal(t, "contract B {}", string(got))
}

func TestGetReturnsDistinctDirsEachCall(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	populateSrcDir(t, srcDir)
	workDir := t.TempDir()

	dealer := workdir.NewCachedDealer(workDir, srcDir)

	first, err := dealer.Get()
	require.NoError(t, err)
	second, err := dealer.Get()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	defer dealer.Clean()
}

func TestCleanRemovesCreatedDirs(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	populateSrcDir(t, srcDir)
	workDir := t.TempDir()

	dealer := workdir.NewCachedDealer(workDir, srcDir)
	dstDir, err := dealer.Get()
	require.NoError(t, err)

	dealer.Clean()

	_, err = os.Stat(dstDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRelease(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	populateSrcDir(t, srcDir)
	workDir := t.TempDir()

	dealer := workdir.NewCachedDealer(workDir, srcDir)
	first, err := dealer.Get()
	require.NoError(t, err)
	second, err := dealer.Get()
	require.NoError(t, err)
	defer dealer.Clean()

	dealer.Release(first)

	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(second)
	assert.NoError(t, err)
}

func TestGetFailsWhenSourceUnreadable(t *testing.T) {
	srcDir := t.TempDir()
	populateSrcDir(t, srcDir)

	chmod := os.Chmod
	if runtime.GOOS == "windows" {
		chmod = acl.Chmod
	}
	require.NoError(t, chmod(srcDir, 0o000))
	defer func() { _ = chmod(srcDir, 0o750) }()

	workDir := t.TempDir()
	dealer := workdir.NewCachedDealer(workDir, srcDir)

	_, err := dealer.Get()
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	srcDir := t.TempDir()
	populateSrcDir(t, srcDir)
	workDir := t.TempDir()

	dealer := workdir.NewCachedDealer(workDir, srcDir)
	dstDir, err := dealer.Get()
	require.NoError(t, err)
	defer dealer.Clean()

	require.NoError(t, workdir.WriteFile(dstDir, "a.sol", []byte("contract A2 {}")))

	got, err := os.ReadFile(filepath.Join(dstDir, "a.sol"))
	require.NoError(t, err)
	assert.Equal(t, "contract A2 {}", string(got))
}
