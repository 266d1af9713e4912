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

// Package summary reduces numeric columns of a trial into mean, sample standard deviation
// and Student-t confidence interval.
package summary

import (
	"math"

	"github.com/intelsdi-x/loadsweep/pkg/artifacts"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidence is confidence level used for intervals.
const DefaultConfidence = 0.95

// Summary describes one column of one trial.
// Nondegenerate intervals satisfy CILower <= Mean <= CIUpper.
type Summary struct {
	Column  string
	Mean    float64
	StdDev  float64
	CILower float64
	CIUpper float64
	Load    float64
}

// Engine computes summaries.
type Engine struct {
	Confidence float64
}

// NewEngine returns engine with given confidence level in (0, 1).
func NewEngine(confidence float64) (Engine, error) {
	if !(confidence > 0 && confidence < 1) {
		return Engine{}, errors.Errorf("confidence level must be in (0, 1), got %v", confidence)
	}
	return Engine{Confidence: confidence}, nil
}

func (e Engine) confidence() float64 {
	if e.Confidence == 0 {
		return DefaultConfidence
	}
	return e.Confidence
}

// Summarize returns one Summary per numeric column with at least one present value,
// in order of buffer columns. Every summary is tagged with load.
func (e Engine) Summarize(buffer *artifacts.Buffer, load float64) []Summary {
	var summaries []Summary
	for _, column := range buffer.Columns() {
		if !column.Numeric {
			logrus.Debugf("load %v: skipping non-numeric column %q", load, column.Name)
			continue
		}
		values := column.Present()
		if len(values) == 0 {
			logrus.Debugf("load %v: skipping empty column %q", load, column.Name)
			continue
		}

		summary := e.Column(values)
		summary.Column = column.Name
		summary.Load = load
		summaries = append(summaries, summary)
	}
	return summaries
}

// Column computes statistics of non-empty sample.
func (e Engine) Column(values []float64) Summary {
	n := len(values)
	mean, _ := stats.Mean(values)

	stddev := math.NaN()
	if n > 1 {
		stddev, _ = stats.StandardDeviationSample(values)
	}

	lower, upper := e.Interval(mean, stddev/math.Sqrt(float64(n)), n)
	return Summary{
		Mean:    mean,
		StdDev:  stddev,
		CILower: lower,
		CIUpper: upper,
	}
}

// Interval returns two-sided Student-t confidence interval of mean with standard error sem
// for sample of size n. Interval collapses to [mean, mean] when sem is zero or not finite.
func (e Engine) Interval(mean, sem float64, n int) (float64, float64) {
	if sem == 0 || math.IsNaN(sem) || math.IsInf(sem, 0) || n < 2 {
		return mean, mean
	}

	t := distuv.StudentsT{Mu: mean, Sigma: sem, Nu: float64(n - 1)}
	tail := (1 - e.confidence()) / 2
	return t.Quantile(tail), t.Quantile(1 - tail)
}
