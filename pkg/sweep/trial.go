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
	"strconv"
	"time"

	"github.com/intelsdi-x/loadsweep/pkg/artifacts"
	"github.com/intelsdi-x/loadsweep/pkg/executor"
	"github.com/intelsdi-x/loadsweep/pkg/utils/fs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const waitInterval = 100 * time.Millisecond

// Outcome tells whether a finished trial left any artifacts.
type Outcome int

const (
	// NoArtifacts means the simulator succeeded but wrote no CSV file.
	NoArtifacts Outcome = iota
	// ArtifactsFound means Buffer holds rows of all CSV files of the trial.
	ArtifactsFound
)

func (o Outcome) String() string {
	if o == ArtifactsFound {
		return "ArtifactsFound"
	}
	return "NoArtifacts"
}

// TrialResult is the outcome of one successful simulator run.
type TrialResult struct {
	Load    LoadPoint
	Outcome Outcome
	Buffer  *artifacts.Buffer
}

// Trial runs simulation for a single load point.
type Trial interface {
	Run(ctx context.Context, load LoadPoint) (TrialResult, error)
}

// TrialRunner runs the simulator as
// `<Simulator> <service rate> <Configuration> <scratch directory>`
// in a private scratch directory and loads CSV files the simulator left there.
type TrialRunner struct {
	Executor      executor.Executor
	Simulator     string
	Configuration string
	// ScratchRoot is parent of scratch directories; empty means system temporary directory.
	ScratchRoot string
	// Sink receives output lines; nil discards them.
	Sink Sink
}

// Run implements Trial.
// When ctx is cancelled the simulator is stopped and the context error is returned.
// The scratch directory is removed on every path.
func (r TrialRunner) Run(ctx context.Context, load LoadPoint) (result TrialResult, err error) {
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if load <= 0 {
		return result, &ConfigurationError{Reason: fmt.Sprintf("load must be positive, got %s", load)}
	}
	logger := logrus.WithField("load", load.String())

	scratch, err := fs.AcquireScratch(r.ScratchRoot, fmt.Sprintf("loadsweep_%s_", load))
	if err != nil {
		return result, err
	}
	defer func() {
		if releaseErr := scratch.Release(); releaseErr != nil {
			if err == nil {
				err = releaseErr
				return
			}
			logger.Error(releaseErr)
		}
	}()

	rate := strconv.FormatFloat(load.ServiceRate(), 'g', -1, 64)
	handle, err := r.Executor.Execute(r.Simulator, rate, r.Configuration, scratch.Path())
	if err != nil {
		return result, errors.Wrapf(err, "cannot start simulator for load %s", load)
	}
	logger.Debugf("simulator %q started in %q", handle, scratch.Path())

	output, err := r.stream(ctx, load, handle)
	if err != nil {
		return result, err
	}

	if err := r.wait(ctx, load, handle); err != nil {
		return result, err
	}
	exitCode, err := handle.ExitCode()
	if err != nil {
		return result, errors.Wrapf(err, "cannot get exit code of simulator for load %s", load)
	}
	if exitCode != 0 {
		failure := &ProcessExecutionError{Load: load, ExitCode: exitCode, Output: output}
		executor.LogUnsuccessfulExecution(handle.String(), r.Executor.Name(), exitCode, failure.Tail(outputTailLines))
		return result, failure
	}

	files, err := artifacts.Discover(scratch.Path())
	if err != nil {
		return result, err
	}
	if len(files) == 0 {
		logger.Warn("simulator left no CSV files")
		return TrialResult{Load: load, Outcome: NoArtifacts}, nil
	}

	buffer, err := artifacts.Load(files...)
	if err != nil {
		return result, errors.Wrapf(err, "cannot load artifacts of load %s", load)
	}
	logger.Debugf("loaded %d rows from %d files", buffer.Rows(), len(files))

	return TrialResult{Load: load, Outcome: ArtifactsFound, Buffer: buffer}, nil
}

// stream forwards output of the task to the sink until the output ends or ctx is done.
func (r TrialRunner) stream(ctx context.Context, load LoadPoint, handle executor.TaskHandle) (output []string, err error) {
	lines := handle.Output()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return output, nil
			}
			output = append(output, line)
			if r.Sink != nil {
				r.Sink.Line(load, line)
			}
		case <-ctx.Done():
			return output, interrupt(ctx, load, handle)
		}
	}
}

// wait blocks until the task terminates or ctx is done.
// Simulator may close its output and still run, so ctx is checked between waits.
func (r TrialRunner) wait(ctx context.Context, load LoadPoint, handle executor.TaskHandle) error {
	for !handle.Wait(waitInterval) {
		if ctx.Err() != nil {
			return interrupt(ctx, load, handle)
		}
	}
	return nil
}

func interrupt(ctx context.Context, load LoadPoint, handle executor.TaskHandle) error {
	if stopErr := handle.Stop(); stopErr != nil {
		logrus.WithField("load", load.String()).Errorf("cannot stop simulator: %v", stopErr)
	}
	return errors.Wrapf(ctx.Err(), "trial for load %s interrupted", load)
}
