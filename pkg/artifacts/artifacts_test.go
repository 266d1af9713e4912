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

package artifacts

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	So(os.WriteFile(path, []byte(content), 0644), ShouldBeNil)
	return path
}

func TestDiscover(t *testing.T) {
	Convey("When trial directory contains various files", t, func() {
		dir := t.TempDir()
		writeFile(dir, "b.csv", "x\n1\n")
		writeFile(dir, "a.csv", "x\n2\n")
		writeFile(dir, "notes.txt", "x\n3\n")
		So(os.Mkdir(filepath.Join(dir, "nested.csv"), 0755), ShouldBeNil)

		Convey("Only regular CSV files should be discovered in sorted order", func() {
			files, err := Discover(dir)
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")})
		})
	})

	Convey("Empty directory should yield no files", t, func() {
		files, err := Discover(t.TempDir())
		So(err, ShouldBeNil)
		So(files, ShouldBeEmpty)
	})
}

func TestLoad(t *testing.T) {
	Convey("When two files with different columns are loaded", t, func() {
		dir := t.TempDir()
		first := writeFile(dir, "a.csv", "blocking,delay\n1,0.5\n2,NA\n")
		second := writeFile(dir, "b.csv", "delay,drops\n0.7,3\n")

		buffer, err := Load(first, second)
		So(err, ShouldBeNil)

		Convey("Rows should be concatenated", func() {
			So(buffer.Rows(), ShouldEqual, 3)
		})

		Convey("Columns should be united in order of appearance", func() {
			columns := buffer.Columns()
			So(columns, ShouldHaveLength, 3)
			So(columns[0].Name, ShouldEqual, "blocking")
			So(columns[1].Name, ShouldEqual, "delay")
			So(columns[2].Name, ShouldEqual, "drops")
		})

		Convey("Absent and missing cells should be NaN", func() {
			blocking, ok := buffer.Column("blocking")
			So(ok, ShouldBeTrue)
			So(blocking.Values[:2], ShouldResemble, []float64{1, 2})
			So(math.IsNaN(blocking.Values[2]), ShouldBeTrue)
			So(blocking.Present(), ShouldResemble, []float64{1, 2})

			delay, _ := buffer.Column("delay")
			So(delay.Present(), ShouldResemble, []float64{0.5, 0.7})

			drops, _ := buffer.Column("drops")
			So(math.IsNaN(drops.Values[0]), ShouldBeTrue)
			So(math.IsNaN(drops.Values[1]), ShouldBeTrue)
			So(drops.Values[2], ShouldEqual, 3)
		})
	})

	Convey("When column holds non-numeric values", t, func() {
		buffer := NewBuffer()
		So(buffer.ReadCSV(strings.NewReader("name,value\nfoo,1\n,2\n")), ShouldBeNil)

		Convey("It should be marked as non-numeric", func() {
			name, _ := buffer.Column("name")
			So(name.Numeric, ShouldBeFalse)
			value, _ := buffer.Column("value")
			So(value.Numeric, ShouldBeTrue)
		})
	})

	Convey("Every missing token should be recognized", t, func() {
		for _, token := range []string{"", "NA", "NaN", "nan", "null", "NULL", "N/A", "#N/A", "None", " NA "} {
			So(IsMissing(token), ShouldBeTrue)
		}
		So(IsMissing("0"), ShouldBeFalse)
	})

	Convey("File with header only should contribute columns without rows", t, func() {
		buffer := NewBuffer()
		So(buffer.ReadCSV(strings.NewReader("a,b\n")), ShouldBeNil)
		So(buffer.Rows(), ShouldEqual, 0)
		So(buffer.Columns(), ShouldHaveLength, 2)
	})

	Convey("Short records should leave trailing cells missing", t, func() {
		buffer := NewBuffer()
		So(buffer.ReadCSV(strings.NewReader("a,b\n1\n")), ShouldBeNil)
		b, _ := buffer.Column("b")
		So(b.Present(), ShouldBeEmpty)
	})

	Convey("When header repeats a column name", t, func() {
		buffer := NewBuffer()
		So(buffer.ReadCSV(strings.NewReader("A,A\n1,2\n3,4\n")), ShouldBeNil)

		Convey("Every position should keep its own values", func() {
			columns := buffer.Columns()
			So(columns, ShouldHaveLength, 2)
			So(columns[0].Name, ShouldEqual, "A")
			So(columns[0].Values, ShouldResemble, []float64{1, 3})
			So(columns[1].Name, ShouldEqual, "A.1")
			So(columns[1].Values, ShouldResemble, []float64{2, 4})
		})
	})

	Convey("Renamed column should not collide with existing name", t, func() {
		buffer := NewBuffer()
		So(buffer.ReadCSV(strings.NewReader("A,A,A.1\n1,2,3\n")), ShouldBeNil)

		names := []string{}
		for _, column := range buffer.Columns() {
			names = append(names, column.Name)
		}
		So(names, ShouldResemble, []string{"A", "A.2", "A.1"})
		a1, _ := buffer.Column("A.1")
		So(a1.Values, ShouldResemble, []float64{3})
	})

	Convey("Repeated names should be united across files", t, func() {
		buffer := NewBuffer()
		So(buffer.ReadCSV(strings.NewReader("A,A\n1,2\n")), ShouldBeNil)
		So(buffer.ReadCSV(strings.NewReader("A,A\n3,4\n")), ShouldBeNil)
		a1, _ := buffer.Column("A.1")
		So(a1.Values, ShouldResemble, []float64{2, 4})
	})

	Convey("Loading not existing file should fail", t, func() {
		_, err := Load("/not/existing.csv")
		So(err, ShouldNotBeNil)
	})
}
