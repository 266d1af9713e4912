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

package executor

import (
	"sync"

	"github.com/intelsdi-x/loadsweep/pkg/utils/err_collection"
	"github.com/sirupsen/logrus"
)

type taskHandleStopper struct {
	taskHandles map[TaskHandle]struct{}
	sync.Mutex
}

var globalTaskHandleStopper = &taskHandleStopper{taskHandles: map[TaskHandle]struct{}{}}

func register(t TaskHandle) {
	globalTaskHandleStopper.register(t)
}

func unregister(t TaskHandle) {
	globalTaskHandleStopper.unregister(t)
}

// StopAll stops unconditionally all task handles that are still running.
// It is meant to be deferred by the main function so no child process outlives it.
func StopAll() error {
	return globalTaskHandleStopper.stopAllTaskHandles()
}

// RunningTasks returns number of started tasks that did not terminate yet.
func RunningTasks() int {
	globalTaskHandleStopper.Lock()
	defer globalTaskHandleStopper.Unlock()
	return len(globalTaskHandleStopper.taskHandles)
}

func (ths *taskHandleStopper) stopAllTaskHandles() error {
	ths.Lock()
	taskHandles := make([]TaskHandle, 0, len(ths.taskHandles))
	for taskHandle := range ths.taskHandles {
		taskHandles = append(taskHandles, taskHandle)
	}
	ths.Unlock()

	var errCollection errcollection.ErrorCollection
	for _, taskHandle := range taskHandles {
		logrus.Debugf("clean: stopping %q", taskHandle)
		err := taskHandle.Stop()
		logrus.Debugf("clean: %q Stop() returned '%v'", taskHandle, err)
		errCollection.Add(err)
	}
	return errCollection.GetErrIfAny()
}

func (ths *taskHandleStopper) register(t TaskHandle) {
	ths.Lock()
	defer ths.Unlock()
	ths.taskHandles[t] = struct{}{}
}

func (ths *taskHandleStopper) unregister(t TaskHandle) {
	ths.Lock()
	defer ths.Unlock()
	delete(ths.taskHandles, t)
}
