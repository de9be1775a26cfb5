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

// Package mutant defines the Mutant record: an originating Source, the
// operator that produced it, a byte range and its replacement text.
package mutant

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gambit-sol/gambit/internal/operator"
	"github.com/gambit-sol/gambit/internal/source"
)

// Status is the outcome of validating a Mutant.
type Status int

// The lifecycle states a Mutant can be in.
const (
	// Pending means the mutant hasn't been validated (yet).
	Pending Status = iota
	// Valid means the mutant recompiled successfully.
	Valid
	// Invalid means the mutant failed to recompile, or failed validation
	// for any other reason (signal, I/O error).
	Invalid
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Valid:
		return "VALID"
	case Invalid:
		return "INVALID"
	default:
		return "PENDING"
	}
}

// Mutant is a single candidate mutation: an operator applied at one byte
// range of one Source.
type Mutant struct {
	src         *source.Source
	op          operator.Operator
	start, end  int
	replacement string
	status      Status
	id          int
}

// New builds a Mutant, validating the bounds invariant: 0 ≤ start ≤ end ≤
// len(source.Contents()).
func New(src *source.Source, op operator.Operator, start, end int, replacement string) (*Mutant, error) {
	if start < 0 || end < start || end > src.Len() {
		return nil, fmt.Errorf("mutant: invalid range [%d:%d) for %d-byte source %s", start, end, src.Len(), src.Filename())
	}

	return &Mutant{src: src, op: op, start: start, end: end, replacement: replacement}, nil
}

// Source returns the owning, shared, read-only Source.
func (m *Mutant) Source() *source.Source { return m.src }

// Operator returns the originating operator.
func (m *Mutant) Operator() operator.Operator { return m.op }

// ShortName returns the originating operator's stable label.
func (m *Mutant) ShortName() string { return m.op.ShortName() }

// Range returns the half-open byte range this mutant replaces.
func (m *Mutant) Range() (start, end int) { return m.start, m.end }

// Replacement returns the replacement text.
func (m *Mutant) Replacement() string { return m.replacement }

// MutatedSource returns the full mutated source buffer.
func (m *Mutant) MutatedSource() []byte {
	return m.src.Splice(m.start, m.end, []byte(m.replacement))
}

// AnnotatedSource returns the mutated buffer with a one-line comment
// inserted immediately before the first line the mutation changed, of the
// form "/// <ShortName> of: <original line trimmed>", indented the same
// as the original line. It is a user-facing nicety used for the copy of a
// mutant written to disk and for its reported diff; validation works
// against the plain MutatedSource.
func (m *Mutant) AnnotatedSource() []byte {
	mutated := m.MutatedSource()

	origLines := splitLinesKeepEnds(m.src.Contents())
	mutLines := splitLinesKeepEnds(mutated)

	n := len(origLines)
	if len(mutLines) < n {
		n = len(mutLines)
	}
	for i := 0; i < n; i++ {
		if bytes.Equal(origLines[i], mutLines[i]) {
			continue
		}

		comment := leadingIndent(origLines[i]) + "/// " + m.ShortName() + " of: " + strings.TrimSpace(string(origLines[i])) + "\n"

		var out bytes.Buffer
		for _, l := range mutLines[:i] {
			out.Write(l)
		}
		out.WriteString(comment)
		for _, l := range mutLines[i:] {
			out.Write(l)
		}

		return out.Bytes()
	}

	return mutated
}

// splitLinesKeepEnds splits b into lines, each retaining its trailing
// newline (the final line may lack one).
func splitLinesKeepEnds(b []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, b[start:i+1])
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, b[start:])
	}

	return lines
}

// leadingIndent returns the leading run of spaces and tabs of line.
func leadingIndent(line []byte) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}

	return string(line[:i])
}

// Position returns the 1-based (line, column) of the mutation site.
func (m *Mutant) Position() (line, column int) {
	return m.src.Position(m.start)
}

// Status returns the current validation Status.
func (m *Mutant) Status() Status { return m.status }

// SetStatus sets the validation Status.
func (m *Mutant) SetStatus(s Status) { m.status = s }

// ID returns the mutant identifier assigned at write time (0 until set).
func (m *Mutant) ID() int { return m.id }

// SetID assigns the mutant identifier.
func (m *Mutant) SetID(id int) { m.id = id }
