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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type (
	DBBackendType string
	LogLevel      string
	LogFormat     string
)

const (
	// FileBackend stores the catalog as a JSON document on disk.
	FileBackend DBBackendType = "file"
	// MySQLBackend represents the MySQL DB backend
	MySQLBackend DBBackendType = "mysql"
	// SQLiteBackend represents the SQLite3 DB backend
	SQLiteBackend DBBackendType = "sqlite3"

	// DefaultConfigFilePath is the default path on disk to the adapter
	// configuration file.
	DefaultConfigFilePath = "/etc/gce-adapter/config.toml"
	// DefaultConfigDir is the default path on disk to the config dir.
	DefaultConfigDir = "/etc/gce-adapter"

	DefaultBindAddress = "0.0.0.0"
	DefaultPort        = 8080

	// DefaultImageProject and DefaultImageFamily select the boot image
	// of new instances.
	DefaultImageProject = "ubuntu-os-cloud"
	DefaultImageFamily  = "ubuntu-2204-lts"
	// DefaultNetwork is the network new instances are attached to.
	DefaultNetwork = "global/networks/default"
	// DefaultNATName is the name of the external access config.
	DefaultNATName = "Nanobox NAT"
)

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// NewConfig returns a new Config
func NewConfig(cfgFile string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(cfgFile, &config); err != nil {
		return nil, errors.Wrap(err, "decoding toml")
	}
	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return &config, nil
}

type Config struct {
	Logging   Logging   `toml:"logging" json:"logging"`
	APIServer APIServer `toml:"apiserver" json:"apiserver"`
	Metrics   Metrics   `toml:"metrics" json:"metrics"`
	Catalog   Catalog   `toml:"catalog" json:"catalog"`
	Database  Database  `toml:"database" json:"database"`
	GCE       GCE       `toml:"gce" json:"gce"`
}

func (c *Config) setDefaults() {
	if c.Logging.LogLevel == "" {
		c.Logging.LogLevel = LevelInfo
	}
	if c.Logging.LogFormat == "" {
		c.Logging.LogFormat = FormatText
	}
	if c.APIServer.Bind == "" {
		c.APIServer.Bind = DefaultBindAddress
	}
	if c.APIServer.Port == 0 {
		c.APIServer.Port = DefaultPort
	}
	if c.Catalog.PriceList == "" {
		c.Catalog.PriceList = filepath.Join(DefaultConfigDir, "pricelist.json")
	}
	if c.Database.DbBackend == "" {
		c.Database.DbBackend = FileBackend
	}
	if c.Database.DbBackend == FileBackend && c.Database.File.Path == "" {
		c.Database.File.Path = filepath.Join(DefaultConfigDir, "catalog.json")
	}
	if c.GCE.ImageProject == "" {
		c.GCE.ImageProject = DefaultImageProject
	}
	if c.GCE.ImageFamily == "" {
		c.GCE.ImageFamily = DefaultImageFamily
	}
	if c.GCE.Network == "" {
		c.GCE.Network = DefaultNetwork
	}
	if c.GCE.NATName == "" {
		c.GCE.NATName = DefaultNATName
	}
}

// Validate validates the config
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return errors.Wrap(err, "validating logging config")
	}
	if err := c.APIServer.Validate(); err != nil {
		return errors.Wrap(err, "validating APIServer config")
	}
	if err := c.Catalog.Validate(); err != nil {
		return errors.Wrap(err, "validating catalog config")
	}
	if err := c.Database.Validate(); err != nil {
		return errors.Wrap(err, "validating database config")
	}
	if err := c.GCE.Validate(); err != nil {
		return errors.Wrap(err, "validating gce config")
	}
	return nil
}

// Logging holds the logging settings.
type Logging struct {
	// LogFile is the location of the log file. Logs go to stdout
	// if empty.
	LogFile       string    `toml:"log_file,omitempty" json:"log-file,omitempty"`
	LogLevel      LogLevel  `toml:"log_level" json:"log-level"`
	LogFormat     LogFormat `toml:"log_format" json:"log-format"`
	IncludeSource bool      `toml:"log_source" json:"log-source"`
}

func (l *Logging) Validate() error {
	switch l.LogLevel {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("invalid log level: %s", l.LogLevel)
	}

	switch l.LogFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid log format: %s", l.LogFormat)
	}
	return nil
}

// SlogLevel returns the slog level matching LogLevel.
func (l *Logging) SlogLevel() slog.Level {
	switch l.LogLevel {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Metrics holds the prometheus endpoint settings.
type Metrics struct {
	Enable bool `toml:"enable" json:"enable"`
}

// Catalog holds the settings of the catalog synchronizer.
type Catalog struct {
	// PriceList is the path to the static GCE price table.
	PriceList string `toml:"price_list" json:"price-list"`
}

func (c *Catalog) Validate() error {
	if c.PriceList == "" {
		return fmt.Errorf("missing price_list")
	}
	return nil
}

// GCE holds the settings used when creating instances.
type GCE struct {
	ImageProject string `toml:"image_project" json:"image-project"`
	ImageFamily  string `toml:"image_family" json:"image-family"`
	Network      string `toml:"network" json:"network"`
	NATName      string `toml:"nat_name" json:"nat-name"`
	// Endpoint overrides the compute API base URL.
	Endpoint string `toml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

func (g *GCE) Validate() error {
	if g.ImageProject == "" || g.ImageFamily == "" {
		return fmt.Errorf("image_project and image_family are mandatory")
	}
	if g.Network == "" {
		return fmt.Errorf("missing network")
	}
	return nil
}

// Database is the catalog store config entry
type Database struct {
	Debug     bool          `toml:"debug" json:"debug"`
	DbBackend DBBackendType `toml:"backend" json:"backend"`
	File      File          `toml:"file" json:"file"`
	MySQL     MySQL         `toml:"mysql" json:"mysql"`
	SQLite    SQLite        `toml:"sqlite3" json:"sqlite3"`
}

// GormParams returns the database type and connection URI
func (d *Database) GormParams() (dbType DBBackendType, uri string, err error) {
	if err := d.Validate(); err != nil {
		return "", "", errors.Wrap(err, "validating database config")
	}
	dbType = d.DbBackend
	switch dbType {
	case MySQLBackend:
		uri, err = d.MySQL.ConnectionString()
		if err != nil {
			return "", "", errors.Wrap(err, "validating mysql config")
		}
	case SQLiteBackend:
		uri, err = d.SQLite.ConnectionString()
		if err != nil {
			return "", "", errors.Wrap(err, "validating sqlite3 config")
		}
	default:
		return "", "", fmt.Errorf("invalid database backend: %s", dbType)
	}
	return
}

// Validate validates the database config entry
func (d *Database) Validate() error {
	if d.DbBackend == "" {
		return fmt.Errorf("invalid databse configuration: backend is required")
	}
	switch d.DbBackend {
	case FileBackend:
		if err := d.File.Validate(); err != nil {
			return errors.Wrap(err, "validating file config")
		}
	case MySQLBackend:
		if err := d.MySQL.Validate(); err != nil {
			return errors.Wrap(err, "validating mysql config")
		}
	case SQLiteBackend:
		if err := d.SQLite.Validate(); err != nil {
			return errors.Wrap(err, "validating sqlite3 config")
		}
	default:
		return fmt.Errorf("invalid database backend: %s", d.DbBackend)
	}
	return nil
}

// File is the config entry for the file backend
type File struct {
	Path string `toml:"path" json:"path"`
}

func (f *File) Validate() error {
	if f.Path == "" {
		return fmt.Errorf("no valid path was specified")
	}

	if !filepath.IsAbs(f.Path) {
		return fmt.Errorf("please specify an absolute path for path")
	}
	return nil
}

// SQLite is the config entry for the sqlite3 section
type SQLite struct {
	DBFile string `toml:"db_file" json:"db-file"`
}

func (s *SQLite) Validate() error {
	if s.DBFile == "" {
		return fmt.Errorf("no valid db_file was specified")
	}

	if !filepath.IsAbs(s.DBFile) {
		return fmt.Errorf("please specify an absolute path for db_file")
	}

	parent := filepath.Dir(s.DBFile)
	if _, err := os.Stat(parent); err != nil {
		return errors.Wrapf(err, "accessing db_file parent dir: %s", parent)
	}
	return nil
}

func (s *SQLite) ConnectionString() (string, error) {
	return fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON", s.DBFile), nil
}

// MySQL is the config entry for the mysql section
type MySQL struct {
	Username     string `toml:"username" json:"username"`
	Password     string `toml:"password" json:"password"`
	Hostname     string `toml:"hostname" json:"hostname"`
	DatabaseName string `toml:"database" json:"database"`
}

// Validate validates a Database config entry
func (m *MySQL) Validate() error {
	if m.Username == "" || m.Password == "" || m.Hostname == "" || m.DatabaseName == "" {
		return fmt.Errorf(
			"database, username, password, hostname are mandatory parameters for the database section")
	}
	return nil
}

// ConnectionString returns a gorm compatible connection string
func (m *MySQL) ConnectionString() (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	connString := fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?charset=utf8&parseTime=True&loc=Local&timeout=5s",
		m.Username, m.Password,
		m.Hostname, m.DatabaseName,
	)
	return connString, nil
}

// TLSConfig is the API server TLS config
type TLSConfig struct {
	CRT    string `toml:"certificate" json:"certificate"`
	Key    string `toml:"key" json:"key"`
	CACert string `toml:"ca_certificate" json:"ca-certificate"`
}

// TLSConfig returns a new TLSConfig suitable for use in the
// API server
func (t *TLSConfig) TLSConfig() (*tls.Config, error) {
	// TLS config not present.
	if t.CRT == "" || t.Key == "" {
		return nil, fmt.Errorf("missing crt or key")
	}

	var roots *x509.CertPool
	if t.CACert != "" {
		caCertPEM, err := os.ReadFile(t.CACert)
		if err != nil {
			return nil, err
		}
		roots = x509.NewCertPool()
		ok := roots.AppendCertsFromPEM(caCertPEM)
		if !ok {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
	}

	cert, err := tls.LoadX509KeyPair(t.CRT, t.Key)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    roots,
	}, nil
}

// Validate validates the TLS config
func (t *TLSConfig) Validate() error {
	if _, err := t.TLSConfig(); err != nil {
		return err
	}
	return nil
}

// APIServer holds configuration for the API server
// worker
type APIServer struct {
	Bind        string    `toml:"bind" json:"bind"`
	Port        int       `toml:"port" json:"port"`
	UseTLS      bool      `toml:"use_tls" json:"use-tls"`
	TLSConfig   TLSConfig `toml:"tls" json:"tls"`
	CORSOrigins []string  `toml:"cors_origins" json:"cors-origins"`
}

func (a *APIServer) APITLSConfig() (*tls.Config, error) {
	if !a.UseTLS {
		return nil, nil
	}

	return a.TLSConfig.TLSConfig()
}

// BindAddress returns a host:port string.
func (a *APIServer) BindAddress() string {
	return net.JoinHostPort(a.Bind, fmt.Sprintf("%d", a.Port))
}

// Validate validates the API server config
func (a *APIServer) Validate() error {
	if a.UseTLS {
		if err := a.TLSConfig.Validate(); err != nil {
			return errors.Wrap(err, "TLS validation failed")
		}
	}
	if a.Port > 65535 || a.Port < 1 {
		return fmt.Errorf("invalid port nr %d", a.Port)
	}

	ip := net.ParseIP(a.Bind)
	if ip == nil {
		// No need for deeper validation here, as any invalid
		// IP address specified in this setting will raise an error
		// when we try to bind to it.
		return fmt.Errorf("invalid IP address")
	}
	return nil
}
