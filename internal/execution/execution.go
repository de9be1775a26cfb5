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

// Package execution maps fatal failure categories to process exit codes.
package execution

// ErrorType is the type of the error that can generate a specific exit status.
type ErrorType int

// String produces the human readable sentence for the ErrorType.
func (e ErrorType) String() string {
	switch e {
	case ConfigurationError:
		return "configuration error"
	case IOError:
		return "I/O error"
	case CompilerSignal:
		return "compiler terminated by signal"
	case MalformedAST:
		return "malformed AST"
	}
	panic("this should not happen")
}

const (
	// ConfigurationError is raised for missing/ambiguous MutateParams, a
	// --filename outside the source root, or a non-.sol extension.
	ConfigurationError ErrorType = iota

	// IOError is raised for missing source files, unreadable configuration,
	// or failed directory creation.
	IOError

	// CompilerSignal is raised when the compiler is killed by a signal
	// while acquiring an AST (not during validation, where this demotes a
	// mutant to invalid instead).
	CompilerSignal

	// MalformedAST is raised when a visited node is missing a usable `src`
	// attribute, or it doesn't parse as start:length:file_index.
	MalformedAST
)

var errorMapping = map[ErrorType]int{
	ConfigurationError: 2,
	IOError:            3,
	CompilerSignal:     4,
	MalformedAST:       5,
}

// ExitError is returned when a failure must propagate to the top-level
// command handler with a specific process exit code.
type ExitError struct {
	errorType ErrorType
	exitCode  int
	cause     error
}

// NewExitErr instantiates a new ExitError, optionally wrapping a cause.
func NewExitErr(et ErrorType, cause error) *ExitError {
	return &ExitError{exitCode: errorMapping[et], errorType: et, cause: cause}
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.cause != nil {
		return e.errorType.String() + ": " + e.cause.Error()
	}

	return e.errorType.String()
}

// Unwrap exposes the wrapped cause for errors.As/errors.Is.
func (e *ExitError) Unwrap() error {
	return e.cause
}

// ExitCode returns the exit code associated with the specific ErrorType.
func (e *ExitError) ExitCode() int {
	return e.exitCode
}
