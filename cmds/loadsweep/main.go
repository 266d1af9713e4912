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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intelsdi-x/loadsweep/pkg/conf"
	"github.com/intelsdi-x/loadsweep/pkg/executor"
	"github.com/intelsdi-x/loadsweep/pkg/experiment"
	"github.com/intelsdi-x/loadsweep/pkg/experiment/logger"
	"github.com/intelsdi-x/loadsweep/pkg/metadata"
	"github.com/intelsdi-x/loadsweep/pkg/summary"
	"github.com/intelsdi-x/loadsweep/pkg/utils/errutil"
	"github.com/intelsdi-x/loadsweep/pkg/utils/uuid"
	"github.com/sirupsen/logrus"
)

const appName = "loadsweep"

var (
	minLoadArg = conf.NewFloatArg("min_load", "Minimum offered load in Erlangs; negative values are clamped to 0")
	maxLoadArg = conf.NewFloatArg("max_load", "Maximum offered load in Erlangs (inclusive)")
	offsetArg  = conf.NewFloatArg("offset", "Step between consecutive loads")

	simulatorPathFlag   = conf.NewStringFlag("simulator_path", "Path to the simulator executable", "./build/App")
	simulatorConfigFlag = conf.NewStringFlag("simulator_config", "Configuration file passed to the simulator", "./resources/configuration/configuration.json")
	buildScriptFlag     = conf.NewStringFlag("build_script", "Script run with bash when the simulator executable is missing", "./scripts/build.sh")
	scratchDirFlag      = conf.NewStringFlag("scratch_dir", "Parent of per-trial scratch directories; system temporary directory when empty", "")
	outputFlag          = conf.NewStringFlag("output", "Dataset file written after successful sweep", "dataset.csv")
	workersFlag         = conf.NewIntFlag("workers", "Maximum number of concurrent trials; 0 means number of CPUs", 0)
	confidenceFlag      = conf.NewFloatFlag("confidence", "Confidence level of intervals", summary.DefaultConfidence)
	sortDatasetFlag     = conf.NewBoolFlag("sort_dataset", "Order dataset rows by load instead of trial completion", false)
	streamOutputFlag    = conf.NewBoolFlag("stream_output", "Print simulator output prefixed with load", true)
	printTableFlag      = conf.NewBoolFlag("print_table", "Print dataset as a table after successful sweep", false)
)

func configFromFlags(sweepID string) sweepConfig {
	// Arguments are validated by experiment.Configure.
	minLoad, _ := minLoadArg.Value()
	maxLoad, _ := maxLoadArg.Value()
	offset, _ := offsetArg.Value()

	return sweepConfig{
		SweepID:       sweepID,
		MinLoad:       minLoad,
		MaxLoad:       maxLoad,
		Offset:        offset,
		Simulator:     simulatorPathFlag.Value(),
		Configuration: simulatorConfigFlag.Value(),
		BuildScript:   buildScriptFlag.Value(),
		ScratchDir:    scratchDirFlag.Value(),
		Output:        outputFlag.Value(),
		Workers:       workersFlag.Value(),
		Confidence:    confidenceFlag.Value(),
		SortDataset:   sortDatasetFlag.Value(),
		StreamOutput:  streamOutputFlag.Value(),
		PrintTable:    printTableFlag.Value(),
		// Progress bar is shown only when nothing else is printed.
		Progress: !streamOutputFlag.Value() && conf.LogLevel() == logrus.ErrorLevel,
	}
}

func sweepMain() error {
	sweepStart := time.Now()
	sweepID := uuid.New()

	closeLog, err := logger.Initialize(appName, sweepID)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if err := executor.StopAll(); err != nil {
			logrus.Errorf("cannot stop all simulators: %v", err)
		}
	}()

	var recorder metadata.Metadata
	if metadata.Enabled() {
		recorder, err = metadata.NewDefault(sweepID)
		if err != nil {
			return err
		}
		defer recorder.Close()

		if err = metadata.RecordRuntimeEnv(recorder, sweepStart); err != nil {
			return err
		}
	}

	return run(ctx, configFromFlags(sweepID), os.Stdout, recorder)
}

func main() {
	conf.SetAppName(appName)
	conf.SetHelp(`Runs the network simulator once per offered load between min_load and max_load
and merges mean, standard deviation and confidence interval of every reported column into one dataset.`)

	experiment.Configure()

	errutil.Check(sweepMain())
}
