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

// Package logger configures logrus for loadsweep commands.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/intelsdi-x/loadsweep/pkg/conf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logFileFlag = conf.NewStringFlag("log_file", "Log file; logs are written to both standard error and the file when set", "")

// Initialize sets up logging to standard error and optional log file and prints the sweep id.
// The returned function closes the log file.
func Initialize(appName, sweepID string) (func(), error) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.100"})
	closer := func() {}

	if path := logFileFlag.Value(); path != "" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return closer, errors.Wrapf(err, "cannot open log file %q", path)
		}
		logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))
		closer = func() {
			logrus.SetOutput(os.Stderr)
			logFile.Close()
		}
		logrus.Infof("Logging to %q", path)
	}

	// Logging and outputting sweep ID.
	logrus.Info("Starting ", appName, " with uid ", sweepID)
	fmt.Println(sweepID)
	return closer, nil
}
