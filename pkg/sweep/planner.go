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
	"math"

	"github.com/shopspring/decimal"
)

// MaxPoints is the largest number of load points a single sweep may plan.
const MaxPoints = 100000

// Plan returns load points min, min+step, ... up to and including max.
// When min is 0 the first point is replaced with 1 and later points equal to it are dropped,
// so no zero load is ever planned and every point is unique.
func Plan(min, max, step float64) ([]LoadPoint, error) {
	for _, value := range []float64{min, max, step} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("loads and offset must be finite, got %v", value)}
		}
	}
	if step <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("offset must be positive, got %v", step)}
	}
	if min < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("minimum load must not be negative, got %v", min)}
	}
	if min > max {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("minimum load %v is greater than maximum load %v", min, max)}
	}

	var (
		dMin  = decimal.NewFromFloat(min)
		dMax  = decimal.NewFromFloat(max)
		dStep = decimal.NewFromFloat(step)
		one   = decimal.NewFromInt(1)

		points []LoadPoint
		seen   = map[string]struct{}{}
	)
	if count := dMax.Sub(dMin).Div(dStep).Floor().Add(one); count.GreaterThan(decimal.NewFromInt(MaxPoints)) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("sweep from %v to %v by %v has %s points, at most %d are allowed", min, max, step, count, MaxPoints)}
	}

	for current := dMin; current.LessThanOrEqual(dMax); current = current.Add(dStep) {
		value := current
		if value.IsZero() {
			value = one
		}
		if _, ok := seen[value.String()]; ok {
			continue
		}
		seen[value.String()] = struct{}{}
		points = append(points, LoadPoint(value.InexactFloat64()))
	}

	return points, nil
}
