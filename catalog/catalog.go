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
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/nanobox-io/gce-adapter/database/common"
	"github.com/nanobox-io/gce-adapter/metrics"
	"github.com/nanobox-io/gce-adapter/params"
	providerCommon "github.com/nanobox-io/gce-adapter/providers/common"
)

// HoursPerMonth is the number of billable hours in a catalog month
// (4 weeks).
const HoursPerMonth = 24 * 7 * 4

// Synchronizer builds the catalog from the provider machine types and
// the price list, and keeps the last result in a store.
type Synchronizer struct {
	store         common.CatalogStore
	priceListPath string

	group singleflight.Group
}

func NewSynchronizer(store common.CatalogStore, priceListPath string) *Synchronizer {
	return &Synchronizer{
		store:         store,
		priceListPath: priceListPath,
	}
}

// List returns the last stored catalog.
func (s *Synchronizer) List(ctx context.Context) (params.Catalog, error) {
	info, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading catalog")
	}
	return info.Catalog, nil
}

// Refresh rebuilds the catalog using provider and replaces the stored one.
// Concurrent refreshes for the same project share a single rebuild. The
// rebuild is not bound to the request that started it, so ctx only
// limits how long this caller waits.
func (s *Synchronizer) Refresh(ctx context.Context, provider providerCommon.Provider) (params.Catalog, error) {
	projectID := provider.ProjectID()
	refreshCtx := context.WithoutCancel(ctx)
	result := s.group.DoChan(projectID, func() (interface{}, error) {
		return s.refresh(refreshCtx, provider)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "waiting for catalog refresh")
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "catalog refresh was shared", "project", projectID)
		}
		return res.Val.(params.Catalog), nil
	}
}

func (s *Synchronizer) refresh(ctx context.Context, provider providerCommon.Provider) (params.Catalog, error) {
	metrics.CatalogRefreshCount.Inc()

	prices, err := LoadPriceTable(s.priceListPath)
	if err != nil {
		metrics.CatalogRefreshFailedCount.WithLabelValues("price_list").Inc()
		return nil, errors.Wrap(err, "loading price list")
	}

	machineTypes, err := provider.MachineTypes(ctx)
	if err != nil {
		metrics.CatalogRefreshFailedCount.WithLabelValues("provider").Inc()
		return nil, errors.Wrap(err, "listing machine types")
	}

	catalog, err := Build(machineTypes, prices)
	if err != nil {
		metrics.CatalogRefreshFailedCount.WithLabelValues("price").Inc()
		return nil, errors.Wrap(err, "building catalog")
	}

	info, err := s.store.Replace(ctx, catalog)
	if err != nil {
		metrics.CatalogRefreshFailedCount.WithLabelValues("store").Inc()
		return nil, errors.Wrap(err, "storing catalog")
	}

	metrics.CatalogZones.Set(float64(len(info.Catalog)))
	metrics.CatalogPlans.Set(float64(info.Catalog.PlanCount()))
	metrics.CatalogLastRefresh.Set(float64(time.Now().Unix()))

	slog.InfoContext(
		ctx, "catalog refreshed",
		"project", provider.ProjectID(),
		"zones", len(info.Catalog),
		"plans", info.Catalog.PlanCount())
	return info.Catalog, nil
}

// ZoneFromKey strips the scope prefix from an aggregated list key
// ("zones/us-central1-a" becomes "us-central1-a").
func ZoneFromKey(key string) string {
	if _, zone, found := strings.Cut(key, "/"); found {
		return zone
	}
	return key
}

// Build joins machine types with their prices. Any machine type without
// a price fails the whole build.
func Build(machineTypes map[string][]params.MachineType, prices PriceTable) (params.Catalog, error) {
	catalog := params.Catalog{}
	for key, types := range machineTypes {
		if len(types) == 0 {
			continue
		}
		zone := ZoneFromKey(key)

		plans := make([]params.Plan, 0, len(types))
		for _, machineType := range types {
			hourly, err := prices.HourlyPrice(zone, machineType.Name)
			if err != nil {
				return nil, err
			}
			plans = append(plans, params.Plan{
				ID:   machineType.Name,
				Name: machineType.Name,
				Specs: []params.PlanSpec{
					{
						ID:           machineType.Name,
						Description:  machineType.Description,
						RAM:          machineType.MemoryMB,
						CPU:          machineType.GuestCPUs,
						Disk:         machineType.MaxDiskGB,
						Transfer:     params.TransferUnlimited,
						DollarsPerHr: hourly,
						DollarsPerMo: MonthlyPrice(hourly),
					},
				},
			})
		}
		sort.Slice(plans, func(i, j int) bool { return plans[i].Name < plans[j].Name })

		catalog = append(catalog, params.ZoneCatalog{
			ID:    zone,
			Name:  zone,
			Plans: plans,
		})
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Name < catalog[j].Name })
	return catalog, nil
}

// MonthlyPrice converts an hourly price to the whole dollar monthly price.
func MonthlyPrice(hourly float64) int64 {
	return int64(math.Floor(hourly * HoursPerMonth))
}
