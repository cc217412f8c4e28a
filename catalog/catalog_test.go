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

package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nanobox-io/gce-adapter/database/common"
	"github.com/nanobox-io/gce-adapter/database/file"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	adapterTesting "github.com/nanobox-io/gce-adapter/internal/testing"
	"github.com/nanobox-io/gce-adapter/params"
)

type SynchronizerTestSuite struct {
	suite.Suite

	store        common.CatalogStore
	provider     *adapterTesting.FakeProvider
	synchronizer *Synchronizer
}

func (s *SynchronizerTestSuite) SetupTest() {
	cfg := adapterTesting.GetTestFileDBConfig(s.T())
	store, err := file.NewFileStore(context.Background(), cfg.File)
	s.Require().NoError(err)
	s.store = store

	priceList := filepath.Join(filepath.Dir(cfg.File.Path), "pricelist.json")
	s.Require().NoError(os.WriteFile(priceList, testPriceList, 0o644))

	s.provider = adapterTesting.NewFakeProvider("catalog-test")
	s.provider.MachineTypeList = map[string][]params.MachineType{
		"zones/us-central1-a": {
			{Name: "n1-standard-1", Description: "1 vCPU, 3.75 GB RAM", Zone: "us-central1-a", GuestCPUs: 1, MemoryMB: 3840, MaxDiskGB: 65536},
			{Name: "f1-micro", Description: "1 vCPU (shared physical core) and 0.6 GB RAM", Zone: "us-central1-a", GuestCPUs: 1, MemoryMB: 614, MaxDiskGB: 3072},
		},
		"zones/asia-east1-a": {
			{Name: "f1-micro", Description: "1 vCPU (shared physical core) and 0.6 GB RAM", Zone: "asia-east1-a", GuestCPUs: 1, MemoryMB: 614, MaxDiskGB: 3072},
		},
	}
	s.synchronizer = NewSynchronizer(store, priceList)
}

func (s *SynchronizerTestSuite) TestListBeforeRefresh() {
	_, err := s.synchronizer.List(context.Background())
	s.Require().ErrorIs(err, adapterErrors.ErrCatalogUnavailable)
}

func (s *SynchronizerTestSuite) TestRefresh() {
	catalog, err := s.synchronizer.Refresh(context.Background(), s.provider)
	s.Require().NoError(err)

	s.Require().Len(catalog, 2)
	s.Require().Equal("asia-east1-a", catalog[0].ID)
	s.Require().Equal("us-central1-a", catalog[1].ID)
	s.Require().Equal("us-central1-a", catalog[1].Name)

	plans := catalog[1].Plans
	s.Require().Len(plans, 2)
	s.Require().Equal("f1-micro", plans[0].Name)
	s.Require().Equal("n1-standard-1", plans[1].Name)
	s.Require().Equal([]params.PlanSpec{
		{
			ID:           "n1-standard-1",
			Description:  "1 vCPU, 3.75 GB RAM",
			RAM:          3840,
			CPU:          1,
			Disk:         65536,
			Transfer:     "unlimited",
			DollarsPerHr: 0.0475,
			DollarsPerMo: 31,
		},
	}, plans[1].Specs)
	s.Require().Equal(0.0091, catalog[0].Plans[0].Specs[0].DollarsPerHr)

	listed, err := s.synchronizer.List(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(catalog, listed)
}

func (s *SynchronizerTestSuite) TestRefreshIsDeterministic() {
	first, err := s.synchronizer.Refresh(context.Background(), s.provider)
	s.Require().NoError(err)
	second, err := s.synchronizer.Refresh(context.Background(), s.provider)
	s.Require().NoError(err)

	firstJSON, err := json.Marshal(first)
	s.Require().NoError(err)
	secondJSON, err := json.Marshal(second)
	s.Require().NoError(err)
	s.Require().Equal(string(firstJSON), string(secondJSON))
}

func (s *SynchronizerTestSuite) TestMissingPriceAbortsRefresh() {
	_, err := s.synchronizer.Refresh(context.Background(), s.provider)
	s.Require().NoError(err)

	s.provider.MachineTypeList["zones/us-central1-a"] = append(
		s.provider.MachineTypeList["zones/us-central1-a"],
		params.MachineType{Name: "e2-micro", Zone: "us-central1-a", GuestCPUs: 2, MemoryMB: 1024},
	)

	_, err = s.synchronizer.Refresh(context.Background(), s.provider)
	var priceErr *adapterErrors.PriceNotFoundError
	s.Require().ErrorAs(err, &priceErr)

	listed, err := s.synchronizer.List(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(3, listed.PlanCount())
}

func (s *SynchronizerTestSuite) TestProviderErrorAbortsRefresh() {
	s.provider.Err = adapterErrors.NewProviderError("backend unavailable")

	_, err := s.synchronizer.Refresh(context.Background(), s.provider)
	var providerErr *adapterErrors.ProviderError
	s.Require().ErrorAs(err, &providerErr)

	_, err = s.synchronizer.List(context.Background())
	s.Require().ErrorIs(err, adapterErrors.ErrCatalogUnavailable)
}

func (s *SynchronizerTestSuite) TestZoneFromKey() {
	s.Require().Equal("us-central1-a", ZoneFromKey("zones/us-central1-a"))
	s.Require().Equal("us-central1-a", ZoneFromKey("us-central1-a"))
}

// blockingProvider holds MachineTypes until release is closed.
type blockingProvider struct {
	*adapterTesting.FakeProvider

	startOnce sync.Once
	started   chan struct{}
	release   chan struct{}
}

func (b *blockingProvider) MachineTypes(ctx context.Context) (map[string][]params.MachineType, error) {
	b.startOnce.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.FakeProvider.MachineTypes(ctx)
}

func (s *SynchronizerTestSuite) TestRefreshSurvivesFirstCallerCancel() {
	provider := &blockingProvider{
		FakeProvider: s.provider,
		started:      make(chan struct{}),
		release:      make(chan struct{}),
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := s.synchronizer.Refresh(firstCtx, provider)
		firstDone <- err
	}()
	<-provider.started

	secondDone := make(chan error, 1)
	go func() {
		_, err := s.synchronizer.Refresh(context.Background(), provider)
		secondDone <- err
	}()

	cancelFirst()
	select {
	case err := <-firstDone:
		s.Require().ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.FailNow("first caller did not return after cancel")
	}

	close(provider.release)
	select {
	case err := <-secondDone:
		s.Require().NoError(err)
	case <-time.After(5 * time.Second):
		s.FailNow("shared refresh did not finish")
	}

	catalog, err := s.synchronizer.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(catalog, 2)
}

func TestSynchronizerTestSuite(t *testing.T) {
	suite.Run(t, new(SynchronizerTestSuite))
}
