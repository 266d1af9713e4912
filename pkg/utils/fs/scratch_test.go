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

package fs

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScratch(t *testing.T) {
	Convey("While using scratch directories", t, func() {
		parent, err := os.MkdirTemp("", "scratch-test-")
		So(err, ShouldBeNil)
		defer os.RemoveAll(parent)

		Convey("Acquired directory should exist under parent with prefix", func() {
			scratch, err := AcquireScratch(parent, "loadsweep_005_")
			So(err, ShouldBeNil)
			defer scratch.Release()

			info, err := os.Stat(scratch.Path())
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)
			So(filepath.Dir(scratch.Path()), ShouldEqual, parent)
			So(filepath.Base(scratch.Path()), ShouldStartWith, "loadsweep_005_")
		})

		Convey("Two acquisitions with the same prefix should never share a directory", func() {
			first, err := AcquireScratch(parent, "same_")
			So(err, ShouldBeNil)
			defer first.Release()
			second, err := AcquireScratch(parent, "same_")
			So(err, ShouldBeNil)
			defer second.Release()

			So(first.Path(), ShouldNotEqual, second.Path())
		})

		Convey("Release should remove directory with its content and be idempotent", func() {
			scratch, err := AcquireScratch(parent, "release_")
			So(err, ShouldBeNil)
			So(os.WriteFile(filepath.Join(scratch.Path(), "result.csv"), []byte("a\n1\n"), 0644), ShouldBeNil)

			So(scratch.Release(), ShouldBeNil)
			_, err = os.Stat(scratch.Path())
			So(os.IsNotExist(err), ShouldBeTrue)

			So(scratch.Release(), ShouldBeNil)
		})

		Convey("Missing parent directory should be created", func() {
			scratch, err := AcquireScratch(filepath.Join(parent, "nested", "dir"), "x_")
			So(err, ShouldBeNil)
			So(scratch.Release(), ShouldBeNil)
		})
	})
}
