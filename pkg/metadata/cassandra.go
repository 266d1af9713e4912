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
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CassandraConfig encodes the settings for connecting to the database.
type CassandraConfig struct {
	Address           string
	ConnectionTimeout time.Duration
	CreateKeyspace    bool
	IgnorePeerAddr    bool
	InitialHostLookup bool
	KeyspaceName      string
	Password          string
	Port              int
	SslCAPath         string
	SslCertPath       string
	SslEnabled        bool
	SslHostValidation bool
	SslKeyPath        string
	Timeout           time.Duration
	Username          string
}

// Cassandra is a helper struct which keeps the Cassandra session alive,
// holds the active configuration and the sweep id to tag the metadata with.
type Cassandra struct {
	sweepID string
	config  CassandraConfig
	session *gocql.Session
}

// DefaultCassandraConfig applies the Cassandra settings from the command line flags and
// environment variables.
func DefaultCassandraConfig() CassandraConfig {
	return CassandraConfig{
		Address:           cassandraAddress.Value(),
		ConnectionTimeout: cassandraConnectionTimeout.Value(),
		CreateKeyspace:    cassandraCreateKeyspace.Value(),
		IgnorePeerAddr:    cassandraIgnorePeerAddr.Value(),
		InitialHostLookup: cassandraInitialHostLookup.Value(),
		KeyspaceName:      cassandraKeyspaceName.Value(),
		Password:          cassandraPassword.Value(),
		Port:              cassandraPort.Value(),
		SslCAPath:         cassandraSslCAPath.Value(),
		SslCertPath:       cassandraSslCertPath.Value(),
		SslEnabled:        cassandraSslEnabled.Value(),
		SslHostValidation: cassandraSslHostValidation.Value(),
		SslKeyPath:        cassandraSslKeyPath.Value(),
		Timeout:           cassandraTimeout.Value(),
		Username:          cassandraUsername.Value(),
	}
}

// NewCassandra returns the Metadata helper from a sweep id and configuration.
func NewCassandra(sweepID string, config CassandraConfig) (Metadata, error) {
	metadata := &Cassandra{
		sweepID: sweepID,
		config:  config,
	}
	err := connect(metadata)
	if err != nil {
		return nil, err
	}

	return metadata, nil
}

func sslOptions(config CassandraConfig) *gocql.SslOptions {
	sslOptions := &gocql.SslOptions{
		EnableHostVerification: config.SslHostValidation,
	}

	if config.SslCAPath != "" {
		sslOptions.CaPath = config.SslCAPath
	}

	if config.SslCertPath != "" {
		sslOptions.CertPath = config.SslCertPath
	}

	if config.SslKeyPath != "" {
		sslOptions.KeyPath = config.SslKeyPath
	}

	return sslOptions
}

// clusterConfig prepares configuration to Cassandra cluster.
func clusterConfig(config CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(config.Address)

	cluster.Consistency = gocql.LocalOne
	cluster.SerialConsistency = gocql.LocalSerial

	cluster.ProtoVersion = 4
	cluster.Port = config.Port
	if config.ConnectionTimeout > 0 {
		cluster.ConnectTimeout = config.ConnectionTimeout
	}
	if config.Timeout > 0 {
		cluster.Timeout = config.Timeout
	}
	cluster.IgnorePeerAddr = config.IgnorePeerAddr
	cluster.DisableInitialHostLookup = !config.InitialHostLookup

	if config.Username != "" && config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	if config.SslEnabled {
		cluster.SslOpts = sslOptions(config)
	}

	return cluster
}

func createKeyspace(config CassandraConfig) error {
	session, err := clusterConfig(config).CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session for creating keyspace")
	}
	defer session.Close()

	query := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1};", config.KeyspaceName)

	return errors.Wrap(session.Query(query).Exec(), "cannot create keyspace")
}

// connect creates a session to the Cassandra cluster. This function should only be called once.
func connect(m *Cassandra) error {
	if m.config.CreateKeyspace {
		if err := createKeyspace(m.config); err != nil {
			return err
		}
	}

	cluster := clusterConfig(m.config)
	cluster.Keyspace = m.config.KeyspaceName

	session, err := cluster.CreateSession()
	if err != nil {
		return errors.Wrapf(err, "cannot connect to Cassandra at %s:%d", m.config.Address, m.config.Port)
	}
	m.session = session

	if err = session.Query("CREATE TABLE IF NOT EXISTS metadata (sweep_id text, kind text, time timestamp, timeuuid TIMEUUID, metadata map<text,text>, PRIMARY KEY ((sweep_id), timeuuid),) WITH CLUSTERING ORDER BY (timeuuid DESC);").Exec(); err != nil {
		return errors.Wrap(err, "cannot create metadata table")
	}

	logrus.Debugf("metadata: connected to Cassandra keyspace %q", m.config.KeyspaceName)
	return nil
}

func storeMap(m *Cassandra, metadata map[string]string, kind string) error {
	err := m.session.Query(`INSERT INTO metadata (sweep_id, kind, time, timeuuid, metadata) VALUES (?, ?, ?, ?, ?)`, m.sweepID, kind, time.Now(), gocql.TimeUUID(), metadata).Exec()
	return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
}

// Record stores a key and value and associates with the sweep id.
func (m *Cassandra) Record(key, value, kind string) error {
	return storeMap(m, map[string]string{key: value}, kind)
}

// RecordMap stores a key and value map and associates with the sweep id.
func (m *Cassandra) RecordMap(metadata map[string]string, kind string) error {
	return storeMap(m, metadata, kind)
}

// GetByKind retrive signle kind from the database.
// Returns error if no kind or too many groups found.
func (m *Cassandra) GetByKind(kind string) (map[string]string, error) {
	var metadata map[string]string

	maps := []map[string]string{}

	iter := m.session.Query(`SELECT metadata FROM metadata WHERE sweep_id = ? AND kind = ? ALLOW FILTERING`, m.sweepID, kind).Iter()
	for iter.Scan(&metadata) {
		maps = append(maps, metadata)
		metadata = nil
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "cannot retrieve metadata of kind %q", kind)
	}

	// Make sure that only one map per sweep exists.
	if len(maps) != 1 {
		return nil, errors.Errorf("cannot retrieve metadata for sweep ID %q and %q kind: %d groups found", m.sweepID, kind, len(maps))
	}
	return maps[0], nil
}

// Clear deletes all metadata entries associated with the current sweep id.
func (m *Cassandra) Clear() error {
	return errors.Wrapf(m.session.Query(`DELETE FROM metadata WHERE sweep_id = ?`, m.sweepID).Exec(),
		"cannot delete metadata of sweep %q", m.sweepID)
}

// Close closes the session.
func (m *Cassandra) Close() error {
	m.session.Close()
	return nil
}
