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
package sql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nanobox-io/gce-adapter/config"
	"github.com/nanobox-io/gce-adapter/database/common"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
)

// catalogDocumentID is the primary key of the only catalog row.
const catalogDocumentID = 1

var _ common.CatalogStore = &sqlDatabase{}

// CatalogDocument holds the whole catalog as a single JSON document.
type CatalogDocument struct {
	ID        uint `gorm:"primarykey"`
	Document  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// newDBConn returns a new gorm db connection, given the config
func newDBConn(dbCfg config.Database) (conn *gorm.DB, err error) {
	dbType, connURI, err := dbCfg.GormParams()
	if err != nil {
		return nil, errors.Wrap(err, "getting DB URI string")
	}

	gormConfig := &gorm.Config{}
	if !dbCfg.Debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	switch dbType {
	case config.MySQLBackend:
		conn, err = gorm.Open(mysql.Open(connURI), gormConfig)
	case config.SQLiteBackend:
		conn, err = gorm.Open(sqlite.Open(connURI), gormConfig)
	}
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	if dbCfg.Debug {
		conn = conn.Debug()
	}
	return conn, nil
}

func NewSQLDatabase(ctx context.Context, cfg config.Database) (common.CatalogStore, error) {
	conn, err := newDBConn(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating DB connection")
	}
	db := &sqlDatabase{
		conn: conn,
		ctx:  ctx,
		cfg:  cfg,
	}

	if err := db.migrateDB(); err != nil {
		return nil, errors.Wrap(err, "migrating database")
	}
	return db, nil
}

type sqlDatabase struct {
	conn *gorm.DB
	ctx  context.Context
	cfg  config.Database
}

func (s *sqlDatabase) migrateDB() error {
	if err := s.conn.AutoMigrate(&CatalogDocument{}); err != nil {
		return errors.Wrap(err, "running auto migrate")
	}
	return nil
}

func dbCatalogToCommonCatalog(doc CatalogDocument) (params.CatalogInfo, error) {
	catalog := params.Catalog{}
	if len(doc.Document) > 0 {
		if err := json.Unmarshal(doc.Document, &catalog); err != nil {
			return params.CatalogInfo{}, errors.Wrap(err, "decoding catalog")
		}
	}
	if catalog == nil {
		catalog = params.Catalog{}
	}
	return params.CatalogInfo{
		Catalog:   catalog,
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

func (s *sqlDatabase) Load(ctx context.Context) (params.CatalogInfo, error) {
	var doc CatalogDocument
	q := s.conn.WithContext(ctx).Model(&CatalogDocument{}).Where("id = ?", catalogDocumentID).First(&doc)
	if q.Error != nil {
		if errors.Is(q.Error, gorm.ErrRecordNotFound) {
			return params.CatalogInfo{}, adapterErrors.ErrCatalogUnavailable
		}
		return params.CatalogInfo{}, errors.Wrap(q.Error, "fetching catalog")
	}
	return dbCatalogToCommonCatalog(doc)
}

func (s *sqlDatabase) Replace(ctx context.Context, catalog params.Catalog) (params.CatalogInfo, error) {
	if catalog == nil {
		catalog = params.Catalog{}
	}
	asJSON, err := json.Marshal(catalog)
	if err != nil {
		return params.CatalogInfo{}, errors.Wrap(err, "encoding catalog")
	}

	var doc CatalogDocument
	err = s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", catalogDocumentID).First(&doc)
		if q.Error != nil {
			if !errors.Is(q.Error, gorm.ErrRecordNotFound) {
				return errors.Wrap(q.Error, "fetching catalog")
			}
			doc = CatalogDocument{ID: catalogDocumentID}
		}

		doc.Document = datatypes.JSON(asJSON)
		if err := tx.Save(&doc).Error; err != nil {
			return errors.Wrap(err, "saving catalog")
		}
		return nil
	})
	if err != nil {
		return params.CatalogInfo{}, err
	}
	return dbCatalogToCommonCatalog(doc)
}

func (s *sqlDatabase) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return errors.Wrap(err, "fetching DB handle")
	}
	return sqlDB.Close()
}
