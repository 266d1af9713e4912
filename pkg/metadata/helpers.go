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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/intelsdi-x/loadsweep/pkg/conf"
	"github.com/intelsdi-x/loadsweep/pkg/dataset"
	"github.com/pkg/errors"
)

// RecordRuntimeEnv stores flags, environment, host, start time and platform of the sweep.
func RecordRuntimeEnv(metadata Metadata, sweepStart time.Time) error {
	// Store configuration.
	err := recordFlags(metadata)
	if err != nil {
		return err
	}

	// Store LOADSWEEP_ environment configuration.
	err = recordEnv(metadata, conf.EnvironmentPrefix)
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve hostname")
	}
	// Store hostname and start time.
	err = metadata.RecordMap(map[string]string{"time": sweepStart.Format(time.RFC822Z), "host": hostname}, TypeEmpty)
	if err != nil {
		return err
	}

	// Store hardware & OS details.
	return metadata.RecordMap(GetPlatformMetrics(), TypePlatform)
}

// RecordDataset stores every cell of the dataset as one map of kind TypeSummary.
// Keys have form "<load>/<column>/<statistic>".
func RecordDataset(metadata Metadata, ds *dataset.Dataset) error {
	values := map[string]string{}
	for i, row := range ds.Rows {
		record := ds.Record(i)
		for j, name := range dataset.Header {
			if name == "column" || name == "load" {
				continue
			}
			values[SummaryKey(row.Load, row.Column, name)] = record[j]
		}
	}
	if len(values) == 0 {
		return nil
	}
	return metadata.RecordMap(values, TypeSummary)
}

// SummaryKey returns key under which statistic of column for load is recorded.
func SummaryKey(load float64, column, statistic string) string {
	return fmt.Sprintf("%s/%s/%s", dataset.FormatFloat(load), column, statistic)
}

// recordFlags saves whole flags based configuration in the metadata information.
func recordFlags(metadata Metadata) error {
	return metadata.RecordMap(conf.GetFlags(), TypeFlags)
}

// recordEnv adds all OS Environment variables that starts with prefix 'prefix'
// in the metadata information
func recordEnv(metadata Metadata, prefix string) error {
	envMetadata := map[string]string{}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, prefix) {
			fields := strings.SplitN(env, "=", 2)
			envMetadata[fields[0]] = fields[1]
		}
	}
	if len(envMetadata) == 0 {
		return nil
	}
	return metadata.RecordMap(envMetadata, TypeEnviron)
}
