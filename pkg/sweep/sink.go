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
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Sink receives every output line of every trial tagged with its load.
// Implementations must be safe for concurrent use.
type Sink interface {
	Line(load LoadPoint, line string)
}

// ConsoleSink writes "[Load=005] line" records; every line is written at once.
type ConsoleSink struct {
	mutex  sync.Mutex
	writer io.Writer
}

// NewConsoleSink returns sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{writer: w}
}

// Line implements Sink.
func (c *ConsoleSink) Line(load LoadPoint, line string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	fmt.Fprintf(c.writer, "[Load=%s] %s\n", load.Tag(), line)
}

// LogSink forwards lines to logrus at debug level.
type LogSink struct{}

// Line implements Sink.
func (LogSink) Line(load LoadPoint, line string) {
	logrus.WithField("load", load.String()).Debug(line)
}
