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

package metadata

import (
	"bufio"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// CPUModelNameKey defines a key in the platform metrics map
	CPUModelNameKey = "cpu_model"
	// CPUCountKey defines a key in the platform metrics map
	CPUCountKey = "cpu_count"
	// KernelVersionKey defines a key in the platform metrics map
	KernelVersionKey = "kernel_version"
	// CPUTopologyKey defines a key in the platform metrics map
	CPUTopologyKey = "cpu_topology"
)

// GetPlatformMetrics returns map of strings with platform metrics.
// If metric could not be retreived value for the key is empty string.
func GetPlatformMetrics() map[string]string {
	platformMetrics := map[string]string{
		CPUCountKey: strconv.Itoa(runtime.NumCPU()),
	}

	for key, get := range map[string]func() (string, error){
		CPUModelNameKey:  CPUModelName,
		KernelVersionKey: KernelVersion,
		CPUTopologyKey:   CPUTopology,
	} {
		item, err := get()
		if err != nil {
			logrus.Warnf("GetPlatformMetrics: Failed to get %s metric. Skipping. Error: %s", key, err)
		}
		platformMetrics[key] = item
	}

	return platformMetrics
}

// CPUModelName reads /proc/cpuinfo and returns value of first 'model name' line.
func CPUModelName() (string, error) {
	file, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return "", errors.Wrap(err, "cannot open /proc/cpuinfo file")
	}
	defer file.Close()

	procScanner := bufio.NewScanner(file)
	for procScanner.Scan() {
		chunks := strings.SplitN(procScanner.Text(), ":", 2)
		if len(chunks) == 2 && strings.TrimSpace(chunks[0]) == "model name" {
			return strings.TrimSpace(chunks[1]), nil
		}
	}
	// Return error from scanner or newly created one.
	err = procScanner.Err()
	if err == nil {
		err = errors.New("did not find phrase 'model name' in /proc/cpuinfo")
	}
	return "", err
}

// KernelVersion return kernel version as stated in /proc/version
func KernelVersion() (string, error) {
	content, err := os.ReadFile("/proc/version")
	if err != nil {
		return "", errors.Wrap(err, "cannot read /proc/version")
	}
	return strings.TrimSpace(string(content)), nil
}

// CPUTopology returns CPU topology returned by 'lscpu -e' command.
func CPUTopology() (string, error) {
	output, err := exec.Command("lscpu", "-e").Output()
	if err != nil {
		return "", errors.Wrap(err, "failed to get output from lscpu -e")
	}
	return strings.TrimSpace(string(output)), nil
}
