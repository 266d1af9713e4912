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

package conf

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

const testAppName = "testAppName"

var (
	customFlag = NewStringFlag("custom_arg", "help", "default")
	firstArg   = NewFloatArg("first_test_arg", "first positional")
	secondArg  = NewFloatArg("second_test_arg", "second positional")
)

func clearEnv() {
	// Clear all environment variables in context of that test.
	logLevelFlag.clear()
	customFlag.clear()
}

func TestConf(t *testing.T) {
	Convey("While using Conf pkg", t, func() {
		clearEnv()
		defer clearEnv()

		SetAppName(testAppName)
		SetHelp("test help")

		Convey("Name and help should match to specified one", func() {
			So(AppName(), ShouldEqual, testAppName)
			So(app.Help, ShouldEqual, "test help")
		})

		Convey("Log level can be fetched from env", func() {
			err := ParseEnv()
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)

			os.Setenv(logLevelFlag.envName(), "debug")

			err = ParseEnv()
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.DebugLevel)
		})

		Convey("Invalid log level falls back to default", func() {
			os.Setenv(logLevelFlag.envName(), "verbose")

			err := ParseEnv()
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)
		})

		Convey("When positional arguments are given they are parsed as floats", func() {
			err := ParseArgs([]string{"1", "91.5"})
			So(err, ShouldBeNil)
			So(ValidateArgs(), ShouldBeNil)

			value, err := firstArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, 1)

			value, err = secondArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, 91.5)
		})

		Convey("When positional argument is not a number validation fails", func() {
			err := ParseArgs([]string{"1", "ten"})
			So(err, ShouldBeNil)
			So(ValidateArgs(), ShouldNotBeNil)
			So(ValidateArgs().Error(), ShouldContainSubstring, "second_test_arg")
		})

		Convey("When positional argument is missing validation fails", func() {
			So(ParseArgs([]string{"1", "2"}), ShouldBeNil)
			So(ParseArgs([]string{"1"}), ShouldBeNil)

			err := ValidateArgs()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not provided")
		})

		Convey("Negative numbers are parsed as positional arguments", func() {
			So(ParseArgs([]string{"-5", "-2.5"}), ShouldBeNil)
			So(ValidateArgs(), ShouldBeNil)

			value, err := firstArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, -5)

			value, err = secondArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, -2.5)
		})

		Convey("Negative positional arguments can be mixed with flags", func() {
			So(ParseArgs([]string{"--custom_arg", "value", "-5", "--log=info", "3"}), ShouldBeNil)
			So(ValidateArgs(), ShouldBeNil)
			So(customFlag.Value(), ShouldEqual, "value")
			So(LogLevel(), ShouldEqual, logrus.InfoLevel)

			value, err := firstArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, -5)

			value, err = secondArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, 3)
		})

		Convey("Arguments after explicit separator are kept", func() {
			So(ParseArgs([]string{"--", "-1", "2"}), ShouldBeNil)
			value, err := firstArg.Value()
			So(err, ShouldBeNil)
			So(value, ShouldEqual, -1)
		})

		Convey("Unknown short flag which is not a number still fails", func() {
			So(ParseArgs([]string{"-x", "1", "2"}), ShouldNotBeNil)
		})

		Convey("Too many positional arguments make parse fail", func() {
			err := ParseArgs([]string{"1", "2", "3"})
			So(err, ShouldNotBeNil)
		})

		Convey("Usage mentions positional arguments", func() {
			buffer := &bytes.Buffer{}
			Usage(buffer, nil)
			So(buffer.String(), ShouldContainSubstring, "first_test_arg")
		})
	})
}
