// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package executor

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// LogUnsuccessfulExecution is helper function for logging the tail of merged output
// and the exit code of a command that did not succeed.
func LogUnsuccessfulExecution(whatWasExecuted string, whereWasExecuted string, exitCode int, tail []string) {
	id := rand.Intn(9999)
	logrus.Errorf("%4d Command %q might have ended prematurely on %q", id, whatWasExecuted, whereWasExecuted)
	logrus.Errorf("%4d Exit code: %d", id, exitCode)
	if len(tail) > 0 {
		logrus.Errorf("%4d Last %d lines of output", id, len(tail))
		ErrorLogLines(tail, id)
	}
}

// ErrorLogLines takes lines and some ID and prints each line
// in a separate log.Errorf("%4d <line>", id, line).
// Logrus does not support multi-line logs.
func ErrorLogLines(lines []string, logID int) {
	for _, line := range lines {
		logrus.Errorf("%4d %s", logID, line)
	}
}

// Tail keeps at most n most recent lines.
type Tail struct {
	n     int
	lines []string
}

// NewTail returns Tail bounded to n lines.
func NewTail(n int) *Tail {
	return &Tail{n: n}
}

// Add appends line dropping the oldest one when limit is exceeded.
func (t *Tail) Add(line string) {
	if t.n <= 0 {
		return
	}
	if len(t.lines) == t.n {
		t.lines = append(t.lines[:0], t.lines[1:]...)
	}
	t.lines = append(t.lines, line)
}

// Lines returns collected lines from the oldest.
func (t *Tail) Lines() []string {
	return append([]string(nil), t.lines...)
}
