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

// Package experiment handles configuration and logging shared by loadsweep commands.
package experiment

import (
	"fmt"
	"io"
	"os"

	"github.com/intelsdi-x/loadsweep/pkg/conf"
	"github.com/intelsdi-x/loadsweep/pkg/metadata"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ExUsage is exit code for invalid command line usage.
const ExUsage = 1

var (
	// dumpConfigFlag name includes dash to excluded it from dumping.
	dumpConfigFlag = conf.NewBoolFlag("config-dump", "Dump configuration as environment script.", false)

	// dumpConfigSweepIDFlag name includes dash to excluded it from dumping.
	dumpConfigSweepIDFlag = conf.NewStringFlag("config-dump-sweep-id", "Dump configuration of a previous sweep stored in metadata database.", "")

	newMetadata = metadata.NewDefault
)

// UsageError is returned for invalid command line.
type UsageError struct {
	err error
}

func (e UsageError) Error() string {
	return e.err.Error()
}

// Configure handles configuration parsing and dumping based on config-* flags.
// Note: exits if configuration dump was requested or command line is invalid.
func Configure() {
	done, err := ConfigureArgs(os.Args[1:], os.Stdout)
	if err != nil {
		if _, ok := err.(UsageError); ok {
			fmt.Fprintf(os.Stderr, "%s: error: %s\n", conf.AppName(), err)
			conf.Usage(os.Stderr, os.Args[1:])
			os.Exit(ExUsage)
		}
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
	if done {
		os.Exit(0)
	}
}

// ConfigureArgs parses args and environment and sets log level.
// When configuration dump was requested it is written to w and done is true.
func ConfigureArgs(args []string, w io.Writer) (done bool, err error) {
	if err := conf.ParseArgs(args); err != nil {
		return false, UsageError{err}
	}
	logrus.SetLevel(conf.LogLevel())

	if dumpConfigFlag.Value() {
		return true, dumpConfig(w)
	}

	if err := conf.ValidateArgs(); err != nil {
		return false, UsageError{err}
	}
	return false, nil
}

func dumpConfig(w io.Writer) error {
	previousSweepID := dumpConfigSweepIDFlag.Value()
	if previousSweepID == "" {
		fmt.Fprintln(w, conf.DumpConfig())
		return nil
	}

	m, err := newMetadata(previousSweepID)
	if err != nil {
		return errors.Wrapf(err, "cannot connect to metadata database for sweep %q", previousSweepID)
	}
	defer m.Close()

	flags, err := m.GetByKind(metadata.TypeFlags)
	if err != nil {
		return errors.Wrapf(err, "cannot retrieve flags of sweep %q", previousSweepID)
	}
	fmt.Fprintln(w, conf.DumpConfigMap(flags))
	return nil
}
