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

package sweep_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/intelsdi-x/loadsweep/pkg/artifacts"
	"github.com/intelsdi-x/loadsweep/pkg/summary"
	"github.com/intelsdi-x/loadsweep/pkg/sweep"
	"github.com/intelsdi-x/loadsweep/pkg/sweep/mocks"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
)

func found(load sweep.LoadPoint, content string) sweep.TrialResult {
	buffer := artifacts.NewBuffer()
	So(buffer.ReadCSV(strings.NewReader(content)), ShouldBeNil)
	return sweep.TrialResult{Load: load, Outcome: sweep.ArtifactsFound, Buffer: buffer}
}

func TestScheduler(t *testing.T) {
	Convey("While using scheduler with mocked trial", t, func() {
		trial := &mocks.Trial{}
		scheduler := sweep.Scheduler{
			Trial:   trial,
			Engine:  summary.Engine{Confidence: summary.DefaultConfidence},
			Workers: 2,
		}

		Convey("When all trials succeed", func() {
			trial.On("Run", mock.Anything, sweep.LoadPoint(1)).Return(found(1, "A,B\n1,1\n2,1\n3,1\n"), nil)
			trial.On("Run", mock.Anything, sweep.LoadPoint(7)).Return(found(7, "A,B\n1,1\n2,1\n3,1\n"), nil)

			var (
				progress []int
				totals   []int
				errs     []error
			)
			scheduler.Progress = func(done, total int, load sweep.LoadPoint, err error) {
				progress = append(progress, done)
				totals = append(totals, total)
				errs = append(errs, err)
			}
			groups, err := scheduler.Run(context.Background(), []sweep.LoadPoint{1, 7})

			Convey("Every load should contribute one group", func() {
				So(err, ShouldBeNil)
				So(groups, ShouldHaveLength, 2)
				So(progress, ShouldResemble, []int{1, 2})
				So(totals, ShouldResemble, []int{2, 2})
				So(errs, ShouldResemble, []error{nil, nil})
				trial.AssertExpectations(t)
			})

			Convey("Summaries should be tagged with load of their group", func() {
				for _, group := range groups {
					So(group.Summaries, ShouldHaveLength, 2)
					for _, s := range group.Summaries {
						So(s.Load, ShouldEqual, float64(group.Load))
					}
					So(group.Summaries[1].Column, ShouldEqual, "B")
					So(group.Summaries[1].CILower, ShouldEqual, 1)
					So(group.Summaries[1].CIUpper, ShouldEqual, 1)
				}
			})
		})

		Convey("When a trial leaves no artifacts", func() {
			trial.On("Run", mock.Anything, sweep.LoadPoint(1)).Return(found(1, "A\n1\n"), nil)
			trial.On("Run", mock.Anything, sweep.LoadPoint(2)).Return(sweep.TrialResult{Load: 2, Outcome: sweep.NoArtifacts}, nil)

			groups, err := scheduler.Run(context.Background(), []sweep.LoadPoint{1, 2})

			Convey("The sweep should fail with MissingArtifactError and no groups", func() {
				So(groups, ShouldBeNil)
				missing, ok := err.(*sweep.MissingArtifactError)
				So(ok, ShouldBeTrue)
				So(missing.Load, ShouldEqual, sweep.LoadPoint(2))
			})
		})

		Convey("When the first trial fails with a single worker", func() {
			scheduler.Workers = 1
			failure := &sweep.ProcessExecutionError{Load: 1, ExitCode: 1}
			trial.On("Run", mock.Anything, sweep.LoadPoint(1)).Return(sweep.TrialResult{}, failure)
			trial.On("Run", mock.Anything, mock.Anything).Return(found(2, "A\n1\n"), nil)

			groups, err := scheduler.Run(context.Background(), []sweep.LoadPoint{1, 2, 3})

			Convey("The error should be returned and remaining trials skipped", func() {
				So(err, ShouldEqual, failure)
				So(groups, ShouldBeNil)
				trial.AssertNumberOfCalls(t, "Run", 1)
			})
		})

		Convey("When a trial fails while other trials are running", func() {
			scheduler.Workers = 3
			release := make(chan struct{})
			var running sync.WaitGroup
			running.Add(2)

			failure := errors.New("simulator crashed")
			trial.On("Run", mock.Anything, sweep.LoadPoint(1)).Return(
				func(context.Context, sweep.LoadPoint) sweep.TrialResult {
					running.Wait()
					return sweep.TrialResult{}
				},
				func(context.Context, sweep.LoadPoint) error { return failure },
			)
			for _, load := range []sweep.LoadPoint{2, 3} {
				load := load
				trial.On("Run", mock.Anything, load).Return(
					func(context.Context, sweep.LoadPoint) sweep.TrialResult {
						running.Done()
						<-release
						return sweep.TrialResult{Load: load, Outcome: sweep.ArtifactsFound, Buffer: artifacts.NewBuffer()}
					},
					nil,
				)
			}

			done := make(chan struct{})
			var (
				groups []sweep.Group
				err    error
			)
			go func() {
				groups, err = scheduler.Run(context.Background(), []sweep.LoadPoint{1, 2, 3})
				close(done)
			}()

			Convey("Run should wait for running trials and discard their results", func() {
				running.Wait()
				select {
				case <-done:
					t.Fatal("scheduler returned before running trials finished")
				default:
				}
				close(release)
				<-done

				So(errors.Cause(err), ShouldEqual, failure)
				So(groups, ShouldBeNil)
				trial.AssertNumberOfCalls(t, "Run", 3)
			})
		})

		Convey("When no point is given", func() {
			groups, err := scheduler.Run(context.Background(), nil)
			So(err, ShouldBeNil)
			So(groups, ShouldBeEmpty)
		})
	})
}
