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

package sweep

import (
	"fmt"
	"strings"
)

// outputTailLines is number of captured output lines included in error messages.
const outputTailLines = 3

// ConfigurationError is returned for invalid sweep parameters.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid sweep configuration: " + e.Reason
}

// BuildError is returned when simulator executable could not be provided.
type BuildError struct {
	Script string
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cannot build simulator with %q: %s", e.Script, e.Reason)
}

// ProcessExecutionError is returned when simulator exited with nonzero code or was killed by signal.
// Negative ExitCode is number of the signal.
type ProcessExecutionError struct {
	Load     LoadPoint
	ExitCode int
	Output   []string
}

func (e *ProcessExecutionError) Error() string {
	msg := fmt.Sprintf("simulator for load %s failed with exit code %d", e.Load, e.ExitCode)
	if tail := e.Tail(outputTailLines); len(tail) > 0 {
		msg += ": " + strings.Join(tail, " | ")
	}
	return msg
}

// Tail returns at most n last lines of captured output.
func (e *ProcessExecutionError) Tail(n int) []string {
	if len(e.Output) <= n {
		return e.Output
	}
	return e.Output[len(e.Output)-n:]
}

// MissingArtifactError is returned when a successful trial left no CSV files.
type MissingArtifactError struct {
	Load LoadPoint
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("no CSV file found for %s Erlangs", e.Load)
}
