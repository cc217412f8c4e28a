// Copyright 2025 The Nanobox GCE Adapter Authors
//
//    Licensed under the Apache License, Version 2.0 (the "License"); you may
//    not use this file except in compliance with the License. You may obtain
//    a copy of the License at
//
//         http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//    WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//    License for the specific language governing permissions and limitations
//    under the License.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getDefaultAPIServerConfig() APIServer {
	return APIServer{
		Bind:        "0.0.0.0",
		Port:        9998,
		UseTLS:      false,
		CORSOrigins: []string{},
	}
}

func getDefaultDatabaseConfig(dir string) Database {
	return Database{
		Debug:     false,
		DbBackend: SQLiteBackend,
		SQLite: SQLite{
			DBFile: filepath.Join(dir, "catalog.db"),
		},
	}
}

func getDefaultConfig(t *testing.T) Config {
	dir := t.TempDir()

	return Config{
		Logging: Logging{
			LogLevel:  LevelInfo,
			LogFormat: FormatText,
		},
		APIServer: getDefaultAPIServerConfig(),
		Catalog: Catalog{
			PriceList: filepath.Join(dir, "pricelist.json"),
		},
		Database: getDefaultDatabaseConfig(dir),
		GCE: GCE{
			ImageProject: DefaultImageProject,
			ImageFamily:  DefaultImageFamily,
			Network:      DefaultNetwork,
			NATName:      DefaultNATName,
		},
	}
}

func TestConfig(t *testing.T) {
	cfg := getDefaultConfig(t)

	err := cfg.Validate()
	assert.Nil(t, err)
}

func TestAPIServerConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       APIServer
		errString string
	}{
		{
			name:      "Config is valid",
			cfg:       getDefaultAPIServerConfig(),
			errString: "",
		},
		{
			name: "Port cannot be 0",
			cfg: APIServer{
				Bind: "0.0.0.0",
				Port: 0,
			},
			errString: "invalid port nr 0",
		},
		{
			name: "Port cannot be larger than 65535",
			cfg: APIServer{
				Bind: "0.0.0.0",
				Port: 65536,
			},
			errString: "invalid port nr 65536",
		},
		{
			name: "Bind must be an IP address",
			cfg: APIServer{
				Bind: "localhost",
				Port: 8080,
			},
			errString: "invalid IP address",
		},
		{
			name: "TLS requires a certificate",
			cfg: APIServer{
				Bind:   "127.0.0.1",
				Port:   8080,
				UseTLS: true,
			},
			errString: "TLS validation failed: missing crt or key",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.errString == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Regexp(t, tc.errString, err.Error())
			}
		})
	}
}

func TestBindAddress(t *testing.T) {
	cfg := getDefaultAPIServerConfig()
	require.Equal(t, "0.0.0.0:9998", cfg.BindAddress())

	cfg.Bind = "::1"
	require.Equal(t, "[::1]:9998", cfg.BindAddress())
}

func TestDatabaseConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		cfg       Database
		errString string
	}{
		{
			name:      "sqlite3 config is valid",
			cfg:       getDefaultDatabaseConfig(dir),
			errString: "",
		},
		{
			name: "file config is valid",
			cfg: Database{
				DbBackend: FileBackend,
				File:      File{Path: filepath.Join(dir, "catalog.json")},
			},
			errString: "",
		},
		{
			name:      "backend is required",
			cfg:       Database{},
			errString: "backend is required",
		},
		{
			name:      "unknown backend",
			cfg:       Database{DbBackend: "postgres"},
			errString: "invalid database backend: postgres",
		},
		{
			name: "file path must be absolute",
			cfg: Database{
				DbBackend: FileBackend,
				File:      File{Path: "catalog.json"},
			},
			errString: "please specify an absolute path for path",
		},
		{
			name: "sqlite3 db_file must be absolute",
			cfg: Database{
				DbBackend: SQLiteBackend,
				SQLite:    SQLite{DBFile: "catalog.db"},
			},
			errString: "please specify an absolute path for db_file",
		},
		{
			name: "sqlite3 parent dir must exist",
			cfg: Database{
				DbBackend: SQLiteBackend,
				SQLite:    SQLite{DBFile: "/i/do/not/exist/catalog.db"},
			},
			errString: "accessing db_file parent dir: /i/do/not/exist.*",
		},
		{
			name: "mysql requires all fields",
			cfg: Database{
				DbBackend: MySQLBackend,
				MySQL:     MySQL{Username: "root"},
			},
			errString: "database, username, password, hostname are mandatory",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.errString == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Regexp(t, tc.errString, err.Error())
			}
		})
	}
}

func TestGormParams(t *testing.T) {
	dir := t.TempDir()
	cfg := getDefaultDatabaseConfig(dir)

	dbType, uri, err := cfg.GormParams()
	require.NoError(t, err)
	require.Equal(t, SQLiteBackend, dbType)
	require.Contains(t, uri, filepath.Join(dir, "catalog.db"))

	cfg = Database{
		DbBackend: MySQLBackend,
		MySQL: MySQL{
			Username:     "adapter",
			Password:     "secret",
			Hostname:     "127.0.0.1:3306",
			DatabaseName: "catalog",
		},
	}
	dbType, uri, err = cfg.GormParams()
	require.NoError(t, err)
	require.Equal(t, MySQLBackend, dbType)
	require.Equal(t, "adapter:secret@tcp(127.0.0.1:3306)/catalog?charset=utf8&parseTime=True&loc=Local&timeout=5s", uri)

	cfg = Database{DbBackend: FileBackend, File: File{Path: filepath.Join(dir, "catalog.json")}}
	_, _, err = cfg.GormParams()
	require.Error(t, err)
}

func TestLoggingConfig(t *testing.T) {
	cfg := Logging{LogLevel: LevelDebug, LogFormat: FormatJSON}
	require.NoError(t, cfg.Validate())
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.LogLevel = "verbose"
	require.ErrorContains(t, cfg.Validate(), "invalid log level: verbose")

	cfg = Logging{LogLevel: LevelError, LogFormat: "xml"}
	require.ErrorContains(t, cfg.Validate(), "invalid log format: xml")
	require.Equal(t, slog.LevelError, cfg.SlogLevel())
}

func TestNewConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	contents := `
[apiserver]
port = 9997

[catalog]
price_list = "` + filepath.Join(dir, "pricelist.json") + `"

[database]
backend = "file"
  [database.file]
  path = "` + filepath.Join(dir, "catalog.json") + `"
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(contents), 0o600))

	cfg, err := NewConfig(cfgFile)
	require.NoError(t, err)
	require.Equal(t, 9997, cfg.APIServer.Port)
	require.Equal(t, DefaultBindAddress, cfg.APIServer.Bind)
	require.Equal(t, LevelInfo, cfg.Logging.LogLevel)
	require.Equal(t, FormatText, cfg.Logging.LogFormat)
	require.Equal(t, FileBackend, cfg.Database.DbBackend)
	require.Equal(t, DefaultImageProject, cfg.GCE.ImageProject)
	require.Equal(t, DefaultImageFamily, cfg.GCE.ImageFamily)
	require.Equal(t, DefaultNetwork, cfg.GCE.Network)
	require.Equal(t, DefaultNATName, cfg.GCE.NATName)
}

func TestNewConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("[apiserver]\nbind = \"nope\"\n"), 0o600))

	_, err := NewConfig(cfgFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validating APIServer config")

	_, err = NewConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "decoding toml")
}
