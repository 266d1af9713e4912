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
	"context"
	"fmt"
	"os"

	"github.com/intelsdi-x/loadsweep/pkg/executor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Shell used to run the build script.
const buildShell = "bash"

// EnsureSimulator runs build script when simulator executable is not present.
// It fails with BuildError when the script fails or does not produce the executable.
func EnsureSimulator(ctx context.Context, exec executor.Executor, simulator, script string) error {
	if isFile(simulator) {
		return nil
	}
	logrus.Infof("simulator %q not found, building with %q", simulator, script)

	handle, err := exec.Execute(buildShell, script)
	if err != nil {
		return &BuildError{Script: script, Reason: err.Error()}
	}

	tail := executor.NewTail(outputTailLines)
	lines := handle.Output()
	for running := true; running; {
		select {
		case line, ok := <-lines:
			if !ok {
				running = false
				continue
			}
			tail.Add(line)
			logrus.WithField("build", script).Debug(line)
		case <-ctx.Done():
			if stopErr := handle.Stop(); stopErr != nil {
				logrus.Errorf("cannot stop build: %v", stopErr)
			}
			return errors.Wrapf(ctx.Err(), "build with %q interrupted", script)
		}
	}

	handle.Wait(0)
	exitCode, err := handle.ExitCode()
	if err != nil {
		return &BuildError{Script: script, Reason: err.Error()}
	}
	if exitCode != 0 {
		executor.LogUnsuccessfulExecution(handle.String(), exec.Name(), exitCode, tail.Lines())
		return &BuildError{Script: script, Reason: fmt.Sprintf("exit code %d", exitCode)}
	}

	if !isFile(simulator) {
		return &BuildError{Script: script, Reason: fmt.Sprintf("simulator %q still missing after build", simulator)}
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
