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

// Executor is responsible for creating execution environment for given process.
// It returns TaskHandle when process started gracefully.
// Process is executed asynchronously.
type Executor interface {
	// Execute runs command with given arguments on underlying platform.
	// No shell is involved; arguments are passed as they are.
	Execute(command string, args ...string) (TaskHandle, error)
	// Name returns user-friendly name of executor.
	Name() string
}
