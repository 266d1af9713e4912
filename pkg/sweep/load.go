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
	"strconv"
)

// LoadPoint is an offered traffic load in Erlangs. Planned points are always positive.
type LoadPoint float64

// ServiceRate returns rate passed to the simulator.
func (l LoadPoint) ServiceRate() float64 {
	return 1 / float64(l)
}

func (l LoadPoint) String() string {
	return strconv.FormatFloat(float64(l), 'g', -1, 64)
}

// Tag returns label used for prefixing simulator output, e.g. "005" or "2.5".
func (l LoadPoint) Tag() string {
	value := float64(l)
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return fmt.Sprintf("%03d", int64(value))
	}
	return l.String()
}
