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

package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/intelsdi-x/loadsweep/pkg/summary"
	"github.com/intelsdi-x/loadsweep/pkg/sweep"
	. "github.com/smartystreets/goconvey/convey"
)

func groups() []sweep.Group {
	return []sweep.Group{
		{Load: 50, Summaries: []summary.Summary{
			{Column: "A", Mean: 2, StdDev: 1, CILower: 0.5, CIUpper: 3.5, Load: 50},
			{Column: "B", Mean: 1, StdDev: 0, CILower: 1, CIUpper: 1, Load: 50},
		}},
		{Load: 5, Summaries: []summary.Summary{
			{Column: "A", Mean: 7, StdDev: math.NaN(), CILower: 7, CIUpper: 7, Load: 5},
		}},
	}
}

func TestDataset(t *testing.T) {
	Convey("When groups are merged", t, func() {
		dataset := Merge(groups())

		Convey("Rows should keep completion order", func() {
			So(dataset.Rows, ShouldHaveLength, 3)
			So(dataset.Loads(), ShouldResemble, []float64{50, 5})
		})

		Convey("Sorting should order rows by load keeping column order", func() {
			dataset.SortByLoad()
			So(dataset.Loads(), ShouldResemble, []float64{5, 50})
			So(dataset.Rows[1].Column, ShouldEqual, "A")
			So(dataset.Rows[2].Column, ShouldEqual, "B")
		})

		Convey("When dataset is written to file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "dataset.csv")
			So(dataset.WriteCSV(path), ShouldBeNil)

			Convey("File should contain header and rows with undefined values empty", func() {
				content, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual,
					"column,mean,stddev,ci_lower,ci_upper,load\n"+
						"A,2,1,0.5,3.5,50\n"+
						"B,1,0,1,1,50\n"+
						"A,7,,7,7,5\n")
			})

			Convey("No temporary file should be left", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("Writing to not existing directory should fail without creating anything", func() {
			path := filepath.Join(t.TempDir(), "missing", "dataset.csv")
			So(dataset.WriteCSV(path), ShouldNotBeNil)
			_, err := os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})

	Convey("Empty dataset should be written as header only", t, func() {
		path := filepath.Join(t.TempDir(), "dataset.csv")
		So(Merge(nil).WriteCSV(path), ShouldBeNil)
		content, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(content), ShouldEqual, "column,mean,stddev,ci_lower,ci_upper,load\n")
	})
}
