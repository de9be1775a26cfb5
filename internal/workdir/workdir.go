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

// Package workdir manages the scratch directories used to validate
// mutants by recompiling them out of place, never touching the
// original source tree.
package workdir

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/gambit-sol/gambit/internal/log"
)

// Dealer hands out scratch directories that start as full copies of a
// base source tree, so a mutated file can be swapped in and recompiled
// without disturbing the original.
type Dealer interface {
	Get() (string, error)
	Release(dir string)
	Clean()
	BaseDir() string
}

// CachedDealer is the Dealer implementation. Every scratch directory it
// creates is named after a fresh uuid rather than a counter: gambit
// validates mutants sequentially today, but a directory-naming scheme
// that doesn't assume sequential callers is one less thing to revisit if
// that ever changes.
type CachedDealer struct {
	mutex   *sync.Mutex
	created []string
	workDir string
	baseDir string
}

// NewCachedDealer instantiates a Dealer rooted at workDir, copying from
// baseDir on every Get call.
func NewCachedDealer(workDir, baseDir string) *CachedDealer {
	return &CachedDealer{
		mutex:   &sync.Mutex{},
		workDir: workDir,
		baseDir: baseDir,
	}
}

// Get creates a new scratch directory containing a full copy of BaseDir.
func (cd *CachedDealer) Get() (string, error) {
	dstDir := filepath.Join(cd.workDir, uuid.NewString())
	if err := os.MkdirAll(dstDir, 0o750); err != nil {
		return "", err
	}
	if err := filepath.Walk(cd.baseDir, cd.copyTo(dstDir)); err != nil {
		return "", err
	}

	cd.mutex.Lock()
	cd.created = append(cd.created, dstDir)
	cd.mutex.Unlock()

	return dstDir, nil
}

// BaseDir returns the source tree that Get copies from.
func (cd *CachedDealer) BaseDir() string {
	return cd.baseDir
}

// Release removes one scratch directory immediately, without waiting for
// Clean. Callers validating mutants one at a time use this so scratch
// copies don't pile up for the lifetime of the run.
func (cd *CachedDealer) Release(dir string) {
	cd.mutex.Lock()
	for i, d := range cd.created {
		if d == dir {
			cd.created = append(cd.created[:i], cd.created[i+1:]...)

			break
		}
	}
	cd.mutex.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		log.Errorf("impossible to remove scratch folder %s: %s\n", dir, err)
	}
}

// Clean removes every scratch directory created so far.
func (cd *CachedDealer) Clean() {
	cd.mutex.Lock()
	created := cd.created
	cd.created = nil
	cd.mutex.Unlock()

	for _, dir := range created {
		if err := os.RemoveAll(dir); err != nil {
			log.Errorf("impossible to remove scratch folder %s: %s\n", dir, err)
		}
	}
}

func (cd *CachedDealer) copyTo(dstDir string) filepath.WalkFunc {
	return func(srcPath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(cd.baseDir, srcPath)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return copyPath(srcPath, filepath.Join(dstDir, relPath), info)
	}
}

func copyPath(srcPath, dstPath string, info fs.FileInfo) error {
	switch mode := info.Mode(); {
	case mode.IsDir():
		if err := os.MkdirAll(dstPath, mode); err != nil && !os.IsExist(err) {
			return err
		}
	case mode.IsRegular():
		return doCopy(srcPath, dstPath, mode)
	}

	return nil
}

func doCopy(srcPath, dstPath string, fileMode fs.FileMode) error {
	//nolint:gosec // srcPath is internally controlled, not user input
	s, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	//nolint:gosec // dstPath is internally controlled, not user input
	d, err := os.OpenFile(dstPath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, fileMode)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	_, err = io.Copy(d, s)

	return err
}

// WriteFile overwrites the file at relPath (relative to dir) with
// contents, used to splice a mutated buffer into a scratch copy before
// recompiling it.
func WriteFile(dir, relPath string, contents []byte) error {
	return os.WriteFile(filepath.Join(dir, relPath), contents, 0o600)
}
