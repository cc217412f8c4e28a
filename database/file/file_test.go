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

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nanobox-io/gce-adapter/database/common"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	adapterTesting "github.com/nanobox-io/gce-adapter/internal/testing"
	"github.com/nanobox-io/gce-adapter/params"
)

type FileStoreTestSuite struct {
	suite.Suite

	path  string
	Store common.CatalogStore
}

func (s *FileStoreTestSuite) SetupTest() {
	cfg := adapterTesting.GetTestFileDBConfig(s.T())
	store, err := NewFileStore(context.Background(), cfg.File)
	s.Require().NoError(err)
	s.path = cfg.File.Path
	s.Store = store
}

func testCatalog(zones ...string) params.Catalog {
	catalog := params.Catalog{}
	for _, zone := range zones {
		catalog = append(catalog, params.ZoneCatalog{
			ID:   zone,
			Name: zone,
			Plans: []params.Plan{
				{
					ID:   "f1-micro",
					Name: "f1-micro",
					Specs: []params.PlanSpec{
						{ID: "f1-micro", RAM: 614, CPU: 1, Disk: 3072, Transfer: params.TransferUnlimited, DollarsPerHr: 0.0076, DollarsPerMo: 5},
					},
				},
			},
		})
	}
	return catalog
}

func (s *FileStoreTestSuite) TestLoadBeforeReplace() {
	_, err := s.Store.Load(context.Background())
	s.Require().ErrorIs(err, adapterErrors.ErrCatalogUnavailable)
}

func (s *FileStoreTestSuite) TestReplaceAndLoad() {
	_, err := s.Store.Replace(context.Background(), testCatalog("us-central1-a"))
	s.Require().NoError(err)

	stored, err := s.Store.Replace(context.Background(), testCatalog("asia-east1-a", "europe-west1-b"))
	s.Require().NoError(err)
	s.Require().False(stored.UpdatedAt.IsZero())

	info, err := s.Store.Load(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(testCatalog("asia-east1-a", "europe-west1-b"), info.Catalog)
}

func (s *FileStoreTestSuite) TestReplaceLeavesNoTemporaryFiles() {
	_, err := s.Store.Replace(context.Background(), testCatalog("us-central1-a"))
	s.Require().NoError(err)

	entries, err := os.ReadDir(filepath.Dir(s.path))
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Require().Equal(filepath.Base(s.path), entries[0].Name())
}

func (s *FileStoreTestSuite) TestEmptyCatalogIsStoredAsArray() {
	_, err := s.Store.Replace(context.Background(), nil)
	s.Require().NoError(err)

	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.Require().Equal("[]", string(data))

	info, err := s.Store.Load(context.Background())
	s.Require().NoError(err)
	s.Require().NotNil(info.Catalog)
	s.Require().Empty(info.Catalog)
}

func (s *FileStoreTestSuite) TestLoadCorruptFile() {
	s.Require().NoError(os.WriteFile(s.path, []byte("{not json"), 0o644))

	_, err := s.Store.Load(context.Background())
	s.Require().Error(err)
	s.Require().NotErrorIs(err, adapterErrors.ErrCatalogUnavailable)
}

func TestFileStoreTestSuite(t *testing.T) {
	suite.Run(t, new(FileStoreTestSuite))
}
