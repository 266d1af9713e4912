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

package summary

import (
	"math"
	"strings"
	"testing"

	"github.com/intelsdi-x/loadsweep/pkg/artifacts"
	. "github.com/smartystreets/goconvey/convey"
)

func buffer(content string) *artifacts.Buffer {
	b := artifacts.NewBuffer()
	So(b.ReadCSV(strings.NewReader(content)), ShouldBeNil)
	return b
}

func TestEngine(t *testing.T) {
	engine := Engine{Confidence: DefaultConfidence}

	Convey("When sample of three values is summarized", t, func() {
		s := engine.Column([]float64{1, 2, 3})

		Convey("Mean and sample deviation should be computed", func() {
			So(s.Mean, ShouldEqual, 2)
			So(s.StdDev, ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Interval should use t quantile with two degrees of freedom", func() {
			halfWidth := 4.302652729749461 / math.Sqrt(3)
			So(s.CILower, ShouldAlmostEqual, 2-halfWidth, 1e-9)
			So(s.CIUpper, ShouldAlmostEqual, 2+halfWidth, 1e-9)
			So(s.CILower, ShouldAlmostEqual, -0.4841377117503298, 1e-9)
			So(s.CIUpper, ShouldAlmostEqual, 4.48413771175033, 1e-9)
		})
	})

	Convey("Constant column should collapse the interval", t, func() {
		s := engine.Column([]float64{5, 5, 5, 5})
		So(s.Mean, ShouldEqual, 5)
		So(s.StdDev, ShouldEqual, 0)
		So(s.CILower, ShouldEqual, 5)
		So(s.CIUpper, ShouldEqual, 5)
	})

	Convey("Single sample should have undefined deviation and collapsed interval", t, func() {
		s := engine.Column([]float64{7})
		So(s.Mean, ShouldEqual, 7)
		So(math.IsNaN(s.StdDev), ShouldBeTrue)
		So(s.CILower, ShouldEqual, 7)
		So(s.CIUpper, ShouldEqual, 7)
	})

	Convey("Nondegenerate interval should contain the mean", t, func() {
		for _, values := range [][]float64{{0.1, 0.4, 0.2}, {10, 12}, {-3, 4, 8, 100, 2}} {
			s := engine.Column(values)
			So(s.CILower, ShouldBeLessThanOrEqualTo, s.Mean)
			So(s.Mean, ShouldBeLessThanOrEqualTo, s.CIUpper)
		}
	})

	Convey("Higher confidence should widen the interval", t, func() {
		narrow := Engine{Confidence: 0.9}.Column([]float64{1, 2, 3})
		wide := Engine{Confidence: 0.99}.Column([]float64{1, 2, 3})
		So(wide.CIUpper-wide.CILower, ShouldBeGreaterThan, narrow.CIUpper-narrow.CILower)
	})

	Convey("Zero value engine should use default confidence", t, func() {
		So(Engine{}.Column([]float64{1, 2, 3}).CIUpper, ShouldAlmostEqual, 4.48413771175033, 1e-9)
	})

	Convey("Invalid confidence should be rejected", t, func() {
		for _, c := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
			_, err := NewEngine(c)
			So(err, ShouldNotBeNil)
		}
		e, err := NewEngine(0.9)
		So(err, ShouldBeNil)
		So(e.Confidence, ShouldEqual, 0.9)
	})
}

func TestSummarize(t *testing.T) {
	engine := Engine{Confidence: DefaultConfidence}

	Convey("When buffer with mixed columns is summarized", t, func() {
		b := buffer("A,label,empty,B\n1,x,,10\n2,y,NA,NA\n3,z,,30\n")
		summaries := engine.Summarize(b, 5)

		Convey("Only numeric columns with values should be summarized in buffer order", func() {
			So(summaries, ShouldHaveLength, 2)
			So(summaries[0].Column, ShouldEqual, "A")
			So(summaries[1].Column, ShouldEqual, "B")
		})

		Convey("Every summary should be tagged with the load", func() {
			for _, s := range summaries {
				So(s.Load, ShouldEqual, 5)
			}
		})

		Convey("Missing cells should be dropped per column", func() {
			So(summaries[1].Mean, ShouldEqual, 20)
		})
	})

	Convey("Empty buffer should produce no summaries", t, func() {
		So(engine.Summarize(artifacts.NewBuffer(), 1), ShouldBeEmpty)
	})
}
