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
	"runtime"
	"sync"

	"github.com/intelsdi-x/loadsweep/pkg/summary"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Group holds all summaries of one trial.
type Group struct {
	Load      LoadPoint
	Summaries []summary.Summary
}

// ProgressFunc is called once per finished trial with number of finished trials so far.
// Calls are serialized.
type ProgressFunc func(done, total int, load LoadPoint, err error)

// Scheduler runs trials for all load points in bounded pool.
type Scheduler struct {
	Trial  Trial
	Engine summary.Engine
	// Workers is maximum number of concurrent trials; 0 or less means number of CPUs.
	Workers  int
	Progress ProgressFunc
}

func (s Scheduler) workers() int {
	if s.Workers <= 0 {
		return runtime.NumCPU()
	}
	return s.Workers
}

// Run dispatches one trial per point and returns groups in completion order.
// The first trial failure to complete aborts the sweep: trials still running are awaited
// and discarded, trials not started yet are skipped, and only that error is returned.
func (s Scheduler) Run(ctx context.Context, points []LoadPoint) ([]Group, error) {
	var (
		group errgroup.Group

		mutex    sync.Mutex
		groups   []Group
		firstErr error
		done     int
		aborted  = make(chan struct{})
	)
	group.SetLimit(s.workers())

	isAborted := func() bool {
		select {
		case <-aborted:
			return true
		default:
			return false
		}
	}

	for _, point := range points {
		if isAborted() {
			break
		}
		point := point
		group.Go(func() error {
			if isAborted() {
				logrus.Debugf("sweep aborted, skipping load %s", point)
				return nil
			}

			result, err := s.Trial.Run(ctx, point)
			var g Group
			if err == nil {
				g, err = s.collect(result)
			}

			mutex.Lock()
			defer mutex.Unlock()
			done++
			if s.Progress != nil {
				s.Progress(done, len(points), point, err)
			}
			if err != nil {
				if firstErr == nil {
					logrus.Errorf("trial for load %s failed, aborting sweep: %v", point, err)
					firstErr = err
					close(aborted)
				} else {
					logrus.Debugf("trial for load %s failed after abort: %v", point, err)
				}
				return err
			}
			if firstErr == nil {
				groups = append(groups, g)
			}
			return nil
		})
	}

	group.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return groups, nil
}

func (s Scheduler) collect(result TrialResult) (Group, error) {
	if result.Outcome != ArtifactsFound || result.Buffer == nil {
		return Group{}, &MissingArtifactError{Load: result.Load}
	}
	return Group{
		Load:      result.Load,
		Summaries: s.Engine.Summarize(result.Buffer, float64(result.Load)),
	}, nil
}
