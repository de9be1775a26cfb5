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

package execution_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gambit-sol/gambit/internal/execution"
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		et   execution.ErrorType
		want int
	}{
		{execution.ConfigurationError, 2},
		{execution.IOError, 3},
		{execution.CompilerSignal, 4},
		{execution.MalformedAST, 5},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.et.String(), func(t *testing.T) {
			t.Parallel()
			err := execution.NewExitErr(tc.et, nil)
			assert.Equal(t, tc.want, err.ExitCode())
		})
	}
}

func TestErrorWrapsCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	err := execution.NewExitErr(execution.IOError, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestExitErrorAs(t *testing.T) {
	t.Parallel()
	var target *execution.ExitError
	err := error(execution.NewExitErr(execution.CompilerSignal, nil))

	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 4, target.ExitCode())
}
