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
	"time"
)

// TaskState is an enum presenting current task state.
type TaskState int

const (
	// RUNNING task state means that task is still running.
	RUNNING TaskState = iota
	// TERMINATED task state means that task completed or stopped.
	TERMINATED
)

// TaskHandle represents a process which can be stopped or monitored.
type TaskHandle interface {
	// Stop terminates the task together with its whole process group.
	Stop() error
	// Status returns a state of the task.
	Status() TaskState
	// ExitCode returns a exitCode. If task is not terminated it returns error.
	// Negative exit code means that task was terminated by signal of that number.
	ExitCode() (int, error)
	// Output returns channel with merged stdout and stderr lines of the task.
	// Channel is closed when output ends. After Stop, remaining lines are discarded.
	Output() <-chan string
	// Wait does the blocking wait for the task completion in case of 0 timeout.
	// It returns true if task is terminated.
	Wait(timeout time.Duration) bool
	// String returns command the task was started with.
	String() string
}
