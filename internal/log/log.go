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

// Package log provides a process-wide singleton logger used to print
// mutation-testing progress and errors to the user's terminal.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

var (
	fgRed     = color.New(color.FgRed).SprintFunc()
	fgGreen   = color.New(color.FgGreen).SprintFunc()
	fgHiBlack = color.New(color.FgHiBlack).SprintFunc()
)

type logger struct {
	out  io.Writer
	eOut io.Writer
}

var mutex = &sync.Mutex{}
var instance *logger

// Init initializes the singleton logger with the given writers. out receives
// informational output, eOut receives errors. If both are nil the logger
// behaves as a no-op.
//
// Calling Init more than once only has an effect on the first call; this
// mirrors the behaviour of the rest of the Gremlins-derived stack, where
// initialization happens once at process start.
func Init(out, eOut io.Writer) {
	if out == nil && eOut == nil {
		return
	}
	if instance == nil {
		mutex.Lock()
		defer mutex.Unlock()
		if instance == nil {
			instance = &logger{out: out, eOut: eOut}
		}
	}
}

// Reset removes the current logger instance. Used in tests.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	instance = nil
}

// Infof logs an informational message using a format string.
func Infof(f string, args ...any) {
	if instance == nil || instance.out == nil {
		return
	}
	_, _ = fmt.Fprintf(instance.out, f, args...)
}

// Infoln logs an informational line.
func Infoln(a any) {
	if instance == nil || instance.out == nil {
		return
	}
	_, _ = fmt.Fprintln(instance.out, a)
}

// Errorf logs an error message using a format string.
func Errorf(f string, args ...any) {
	if instance == nil || instance.eOut == nil {
		return
	}
	msg := fmt.Sprintf(f, args...)
	_, _ = fmt.Fprintf(instance.eOut, "%s: %s", fgRed("ERROR"), msg)
}

// Errorln logs an error line.
func Errorln(a any) {
	if instance == nil || instance.eOut == nil {
		return
	}
	_, _ = fmt.Fprintf(instance.eOut, "%s: %v\n", fgRed("ERROR"), a)
}

// Status prints a single mutant status line: a status label right-aligned
// to 12 columns in the color appropriate to it, followed by the operator short name and the
// site's line:column.
func Status(status, operator, pos string) {
	if instance == nil || instance.out == nil {
		return
	}
	var colored string
	switch status {
	case "VALID", "WRITTEN":
		colored = fgGreen(status)
	case "INVALID":
		colored = fgRed(status)
	case "SKIPPED":
		colored = fgHiBlack(status)
	default:
		colored = status
	}
	_, _ = fmt.Fprintf(instance.out, "%s%s %s at %s\n", padding(status), colored, operator, pos)
}

func padding(s string) string {
	padLen := 12 - len(s)
	if padLen <= 0 {
		return ""
	}

	pad := make([]byte, padLen)
	for i := range pad {
		pad[i] = ' '
	}

	return string(pad)
}
