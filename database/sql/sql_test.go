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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nanobox-io/gce-adapter/config"
	"github.com/nanobox-io/gce-adapter/database/common"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	adapterTesting "github.com/nanobox-io/gce-adapter/internal/testing"
	"github.com/nanobox-io/gce-adapter/params"
)

type CatalogTestSuite struct {
	suite.Suite

	cfg   config.Database
	Store common.CatalogStore
}

func (s *CatalogTestSuite) SetupTest() {
	s.cfg = adapterTesting.GetTestSqliteDBConfig(s.T())
	db, err := NewSQLDatabase(context.Background(), s.cfg)
	if err != nil {
		s.FailNow("failed to create db connection", err)
	}
	s.Store = db
	s.T().Cleanup(func() { db.Close() })
}

func (s *CatalogTestSuite) catalog(zone string, plans ...string) params.Catalog {
	zoneCatalog := params.ZoneCatalog{ID: zone, Name: zone}
	for _, plan := range plans {
		zoneCatalog.Plans = append(zoneCatalog.Plans, params.Plan{
			ID:   plan,
			Name: plan,
			Specs: []params.PlanSpec{
				{ID: plan, Description: plan, RAM: 3840, CPU: 1, Disk: 65536, Transfer: params.TransferUnlimited, DollarsPerHr: 0.0475, DollarsPerMo: 31},
			},
		})
	}
	return params.Catalog{zoneCatalog}
}

func (s *CatalogTestSuite) TestLoadEmptyDatabase() {
	_, err := s.Store.Load(context.Background())
	s.Require().ErrorIs(err, adapterErrors.ErrCatalogUnavailable)
}

func (s *CatalogTestSuite) TestReplaceOverwrites() {
	_, err := s.Store.Replace(context.Background(), s.catalog("us-central1-a", "f1-micro", "n1-standard-1"))
	s.Require().NoError(err)

	expected := s.catalog("europe-west1-b", "n1-standard-2")
	stored, err := s.Store.Replace(context.Background(), expected)
	s.Require().NoError(err)
	s.Require().Equal(expected, stored.Catalog)

	info, err := s.Store.Load(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(expected, info.Catalog)
	s.Require().False(info.UpdatedAt.IsZero())

	var count int64
	db := s.Store.(*sqlDatabase)
	s.Require().NoError(db.conn.Model(&CatalogDocument{}).Count(&count).Error)
	s.Require().Equal(int64(1), count)
}

func (s *CatalogTestSuite) TestCatalogSurvivesReopen() {
	expected := s.catalog("us-central1-a", "f1-micro")
	_, err := s.Store.Replace(context.Background(), expected)
	s.Require().NoError(err)

	reopened, err := NewSQLDatabase(context.Background(), s.cfg)
	s.Require().NoError(err)
	defer reopened.Close()

	info, err := reopened.Load(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(expected, info.Catalog)
}

func (s *CatalogTestSuite) TestReplaceEmptyCatalog() {
	_, err := s.Store.Replace(context.Background(), params.Catalog{})
	s.Require().NoError(err)

	info, err := s.Store.Load(context.Background())
	s.Require().NoError(err)
	s.Require().NotNil(info.Catalog)
	s.Require().Empty(info.Catalog)
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
