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
	"time"

	"github.com/intelsdi-x/loadsweep/pkg/conf"
)

var (
	// DBFlag selects metadata backend; empty disables recording.
	DBFlag = conf.NewStringFlag("metadata_db", "Database for sweep metadata: influxdb, cassandra or empty to disable", "")

	cassandraAddress           = conf.NewStringFlag("cassandra_address", "Address of Cassandra DB endpoint for metadata", "127.0.0.1")
	cassandraUsername          = conf.NewStringFlag("cassandra_username", "The user name which will be presented when connecting to the cluster", "")
	cassandraPassword          = conf.NewStringFlag("cassandra_password", "The password which will be presented when connecting to the cluster", "")
	cassandraPort              = conf.NewIntFlag("cassandra_port", "Port of Cassandra DB endpoint", 9042)
	cassandraConnectionTimeout = conf.NewDurationFlag("cassandra_connection_timeout", "Initial connection timeout", 0)
	cassandraTimeout           = conf.NewDurationFlag("cassandra_timeout", "Query timeout", 0)
	cassandraKeyspaceName      = conf.NewStringFlag("cassandra_keyspace_name", "Keyspace used to store metadata", "loadsweep")
	cassandraCreateKeyspace    = conf.NewBoolFlag("cassandra_create_keyspace", "Create keyspace when it does not exist", true)
	cassandraInitialHostLookup = conf.NewBoolFlag("cassandra_initial_host_lookup", "Query system tables for peers (disable for single node clusters behind NAT)", false)
	cassandraIgnorePeerAddr    = conf.NewBoolFlag("cassandra_ignore_peer_addr", "Use only initial address and ignore addresses of peers", true)
	cassandraSslEnabled        = conf.NewBoolFlag("cassandra_ssl", "Use SSL to connect to Cassandra", false)
	cassandraSslHostValidation = conf.NewBoolFlag("cassandra_ssl_host_validation", "Validate host name presented by Cassandra", false)
	cassandraSslCAPath         = conf.NewStringFlag("cassandra_ssl_ca_path", "Path to CA certificate", "")
	cassandraSslCertPath       = conf.NewStringFlag("cassandra_ssl_cert_path", "Path to client certificate", "")
	cassandraSslKeyPath        = conf.NewStringFlag("cassandra_ssl_key_path", "Path to client key", "")

	influxDBAddress            = conf.NewStringFlag("influxdb_address", "Address of InfluxDB endpoint for metadata", "127.0.0.1")
	influxDBPort               = conf.NewIntFlag("influxdb_port", "Port of InfluxDB HTTP endpoint", 8086)
	influxDBUsername           = conf.NewStringFlag("influxdb_username", "InfluxDB user name", "")
	influxDBPassword           = conf.NewStringFlag("influxdb_password", "InfluxDB password", "")
	influxDBName               = conf.NewStringFlag("influxdb_metadata_db_name", "InfluxDB database used to store metadata", "loadsweep")
	influxDBCreateDatabase     = conf.NewBoolFlag("influxdb_create_database", "Create database when it does not exist", true)
	influxDBInsecureSkipVerify = conf.NewBoolFlag("influxdb_insecure_skip_verify", "Skip verification of InfluxDB certificate", false)
	influxDBTimeout            = conf.NewDurationFlag("influxdb_timeout", "InfluxDB HTTP client timeout", 10*time.Second)
)
