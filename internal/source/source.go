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

// Package source holds the immutable byte buffer of a compiled Solidity
// file and the index used to resolve byte offsets to (line, column).
package source

import (
	"os"
	"sort"
)

// Source is the immutable content of a single input file, together with
// the filename as given to the compiler. It is shared, read-only, across
// every Mutant derived from it.
type Source struct {
	filename string
	contents []byte
	newlines []int
}

// New reads filename and builds its Source. The filename is kept verbatim:
// it must be the exact path given to the compiler, because the AST it
// produces indexes into this content by byte offset.
func New(filename string) (*Source, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return FromBytes(filename, contents), nil
}

// FromBytes builds a Source from an already-read buffer, without touching
// the filesystem. New uses it after reading the file; tests use it
// directly.
func FromBytes(filename string, contents []byte) *Source {
	return &Source{
		filename: filename,
		contents: contents,
		newlines: newlineOffsets(contents),
	}
}

func newlineOffsets(b []byte) []int {
	offsets := make([]int, 0, 16)
	for i, c := range b {
		if c == '\n' {
			offsets = append(offsets, i)
		}
	}

	return offsets
}

// Filename returns the absolute or relative path this Source was read from.
func (s *Source) Filename() string {
	return s.filename
}

// Contents returns the raw byte buffer. Callers must not mutate it.
func (s *Source) Contents() []byte {
	return s.contents
}

// Len returns the number of bytes in the buffer.
func (s *Source) Len() int {
	return len(s.contents)
}

// Position resolves a byte offset into a 1-based (line, column) pair.
func (s *Source) Position(offset int) (line, column int) {
	// idx is the count of newlines strictly before offset.
	idx := sort.SearchInts(s.newlines, offset)
	line = idx + 1
	if idx == 0 {
		column = offset + 1
	} else {
		column = offset - s.newlines[idx-1]
	}

	return line, column
}

// Splice returns the byte concatenation contents[0:start] ++ replacement ++
// contents[end:]. It panics if the range is out of bounds; callers are
// expected to have validated it against Len() first (see mutant.New).
func (s *Source) Splice(start, end int, replacement []byte) []byte {
	out := make([]byte, 0, start+len(replacement)+(len(s.contents)-end))
	out = append(out, s.contents[:start]...)
	out = append(out, replacement...)
	out = append(out, s.contents[end:]...)

	return out
}
