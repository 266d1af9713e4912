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
	"strings"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
	"github.com/pkg/errors"
)

const (
	influxMetadata = "metadata"
)

// InfluxDBConfig holds configuration for InfluxDB
type InfluxDBConfig struct {
	httpConfig     client.HTTPConfig
	dbName         string
	createDatabase bool
}

// InfluxDB is a helper struct which keeps the InfluxDB session alive,
// holds the active configuration and the sweep id to tag the metadata with.
type InfluxDB struct {
	sweepID string
	session client.Client
	config  InfluxDBConfig
}

// DefaultInfluxDBConfig applies the InfluxDB settings from the command line flags and
// environment variables.
func DefaultInfluxDBConfig() InfluxDBConfig {
	return InfluxDBConfig{
		dbName:         influxDBName.Value(),
		createDatabase: influxDBCreateDatabase.Value(),
		httpConfig: client.HTTPConfig{
			Addr:               fmt.Sprintf("http://%s:%d", influxDBAddress.Value(), influxDBPort.Value()),
			Password:           influxDBPassword.Value(),
			Username:           influxDBUsername.Value(),
			InsecureSkipVerify: influxDBInsecureSkipVerify.Value(),
			Timeout:            influxDBTimeout.Value(),
		},
	}
}

// NewInfluxDB returns the Metadata helper from a sweep id and configuration.
func NewInfluxDB(sweepID string, config InfluxDBConfig) (Metadata, error) {
	var err error

	metadata := &InfluxDB{
		sweepID: sweepID,
		config:  config,
	}

	metadata.session, err = client.NewHTTPClient(metadata.config.httpConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create influx client for sweep %s", sweepID)
	}

	if config.createDatabase {
		err = metadata.query(fmt.Sprintf("CREATE DATABASE %s", config.dbName), "")
		if err != nil {
			return nil, errors.Wrapf(err, "cannot create influx database for sweep %s", sweepID)
		}
	}

	return metadata, nil
}

func (m *InfluxDB) query(command, database string) error {
	response, err := m.session.Query(client.Query{Command: command, Database: database})
	if err != nil {
		return errors.Wrapf(err, "query %q failed", command)
	}
	if response.Error() != nil {
		return errors.Wrapf(response.Error(), "response to %q contains error", command)
	}
	return nil
}

// storeMap writes metadata to the database with tags attached to it.
// The whole map is written as fields of one point.
func (m *InfluxDB) storeMap(metadata map[string]string, kind string) error {
	batchPoints, err := client.NewBatchPoints(client.BatchPointsConfig{Database: m.config.dbName})
	if err != nil {
		return errors.Wrapf(err, "creation of batch points for InfluxDB failed for metadata kind %q", kind)
	}

	tags := map[string]string{"kind": kind, "sweep_id": m.sweepID}

	fields := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		fields[key] = value
	}
	point, err := client.NewPoint(influxMetadata, tags, fields, time.Now())
	if err != nil {
		return errors.Wrapf(err, "cannot create new point, kind %q", kind)
	}

	batchPoints.AddPoint(point)

	err = m.session.Write(batchPoints)
	if err != nil {
		return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
	}
	return nil
}

// Record stores a key and value and associates with the sweep id.
func (m *InfluxDB) Record(key, value, kind string) error {
	return m.storeMap(map[string]string{key: value}, kind)
}

// RecordMap stores a key and value map and associates with the sweep id.
func (m *InfluxDB) RecordMap(metadata map[string]string, kind string) error {
	return m.storeMap(metadata, kind)
}

// GetByKind retrive single kind from the database. If duplicates are found then
// the last one is returned.
func (m *InfluxDB) GetByKind(kind string) (map[string]string, error) {
	var metadata = make(map[string]string)
	// There are two tags currently and query gets rid of them by groupping.
	cmd := fmt.Sprintf("SELECT last(*) FROM %s WHERE sweep_id='%s' AND kind='%s' GROUP BY sweep_id,kind", influxMetadata, m.sweepID, kind)

	response, err := m.session.Query(client.Query{
		Command:  cmd,
		Database: m.config.dbName,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query influxdb for sweep %s", m.sweepID)
	}
	if response.Error() != nil {
		return nil, errors.Wrapf(response.Error(), "response from influxdb contained error for sweep %s", m.sweepID)
	}

	for _, result := range response.Results {
		for _, row := range result.Series {
			for _, value := range row.Values {
				for idx, cell := range value {
					// InfluxDB at index 0 returns timestamp and timestamp is not needed in the metadata. Skip it.
					// Also the results may be sparse thus skip empty cells.
					if cell != nil && idx != 0 {
						column := strings.Replace(row.Columns[idx], "last_", "", 1)
						metadata[column] = fmt.Sprint(cell)
					}
				}
			}
		}
	}

	if len(metadata) == 0 {
		return nil, errors.Errorf("no metadata of kind %q found for sweep %s", kind, m.sweepID)
	}
	return metadata, nil
}

// Clear deletes all metadata entries associated with the current sweep id.
func (m *InfluxDB) Clear() error {
	cmd := fmt.Sprintf("DROP SERIES FROM %s WHERE sweep_id ='%s'", influxMetadata, m.sweepID)
	return errors.Wrapf(m.query(cmd, m.config.dbName), "cannot clear metadata of sweep %s", m.sweepID)
}

// Close closes the HTTP client.
func (m *InfluxDB) Close() error {
	return m.session.Close()
}
