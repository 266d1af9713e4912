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

// Package metadata records configuration and results of a sweep in an external database
// under the sweep id.
package metadata

import (
	"fmt"
)

// Predefined types of metadata.
// This selector allows to group metadata by their common characteristics.
// For instance TypeFlags groups parameters passed to loadsweep,
// TypeEnviron environment variables and TypeSummary statistics of the dataset.
const (
	TypeEmpty    = ""
	TypeFlags    = "flags"
	TypeEnviron  = "environ"
	TypePlatform = "platform"
	TypeSummary  = "summary"
)

// Metadata interface defines methods which must be supported by DB backend
type Metadata interface {
	// Record stores a key and value and associates with the sweep id.
	Record(key string, value string, kind string) error
	// RecordMap stores a key and value map and associates with the sweep id.
	RecordMap(metadata map[string]string, kind string) error
	// GetByKind retrives single metadata type from the database.
	// Returns error if no kind or too many groups found.
	GetByKind(kind string) (map[string]string, error)
	// Clear deletes all metadata entries associated with the current sweep id.
	Clear() error
	// Close releases connection to the database.
	Close() error
}

// Enabled returns true when metadata backend was configured.
func Enabled() bool {
	return DBFlag.Value() != ""
}

// NewDefault initialize metadata object which is configured via env. variable.
func NewDefault(sweepID string) (Metadata, error) {
	switch DBFlag.Value() {
	case "cassandra":
		return NewCassandra(sweepID, DefaultCassandraConfig())
	case "influxdb":
		return NewInfluxDB(sweepID, DefaultInfluxDBConfig())
	}

	return nil, fmt.Errorf("Unsupported database for metadata: %q", DBFlag.Value())
}
