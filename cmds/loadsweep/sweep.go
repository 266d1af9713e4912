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
	"fmt"
	"io"
	"os"

	"github.com/intelsdi-x/loadsweep/pkg/dataset"
	"github.com/intelsdi-x/loadsweep/pkg/executor"
	"github.com/intelsdi-x/loadsweep/pkg/metadata"
	"github.com/intelsdi-x/loadsweep/pkg/summary"
	"github.com/intelsdi-x/loadsweep/pkg/sweep"
	"github.com/intelsdi-x/loadsweep/pkg/visualization"
	"github.com/sirupsen/logrus"
	"gopkg.in/cheggaaa/pb.v1"
)

type sweepConfig struct {
	SweepID string

	MinLoad float64
	MaxLoad float64
	Offset  float64

	Simulator     string
	Configuration string
	BuildScript   string
	ScratchDir    string
	Output        string

	Workers    int
	Confidence float64

	SortDataset  bool
	StreamOutput bool
	PrintTable   bool
	Progress     bool
}

// run performs the whole sweep. The dataset is written only when every trial succeeded.
// Recorder may be nil.
func run(ctx context.Context, config sweepConfig, stdout io.Writer, recorder metadata.Metadata) error {
	minLoad := config.MinLoad
	if minLoad < 0 {
		logrus.Warnf("minimum load %v is negative, using 0", minLoad)
		minLoad = 0
	}

	points, err := sweep.Plan(minLoad, config.MaxLoad, config.Offset)
	if err != nil {
		return err
	}
	engine, err := summary.NewEngine(config.Confidence)
	if err != nil {
		return &sweep.ConfigurationError{Reason: err.Error()}
	}

	local := executor.NewLocal()
	if err := sweep.EnsureSimulator(ctx, local, config.Simulator, config.BuildScript); err != nil {
		return err
	}

	var sink sweep.Sink = sweep.LogSink{}
	if config.StreamOutput {
		sink = sweep.NewConsoleSink(stdout)
	}

	scheduler := sweep.Scheduler{
		Trial: sweep.TrialRunner{
			Executor:      local,
			Simulator:     config.Simulator,
			Configuration: config.Configuration,
			ScratchRoot:   config.ScratchDir,
			Sink:          sink,
		},
		Engine:  engine,
		Workers: config.Workers,
	}

	var bar *pb.ProgressBar
	if config.Progress {
		bar = pb.New(len(points)).Prefix("Loads ")
		bar.Output = os.Stderr
		bar.ShowTimeLeft = false
		bar.Start()
	}
	scheduler.Progress = func(done, total int, load sweep.LoadPoint, err error) {
		if bar != nil {
			bar.Increment()
		}
		if err == nil {
			logrus.Infof("trial for load %s finished (%d/%d)", load, done, total)
		}
	}

	logrus.Infof("sweep %s: %d loads from %s to %s", config.SweepID, len(points), points[0], points[len(points)-1])
	fmt.Fprintln(stdout, "Beginning")
	groups, err := scheduler.Run(ctx, points)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Simulations completed\nWriting %s\n", config.Output)
	ds := dataset.Merge(groups)
	if config.SortDataset {
		ds.SortByLoad()
	}
	if err := ds.WriteCSV(config.Output); err != nil {
		return err
	}

	if config.PrintTable {
		visualization.PrintDataset(stdout, config.SweepID, ds)
	}
	if recorder != nil {
		if err := metadata.RecordDataset(recorder, ds); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, "Done")
	return nil
}
