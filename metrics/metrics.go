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
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace         = "gce_adapter"
	metricsProviderSubsystem = "provider"
	metricsCatalogSubsystem  = "catalog"
	metricsAuthSubsystem     = "auth"
)

// RegisterMetrics registers all the metrics
func RegisterMetrics() error {
	return RegisterMetricsWith(prometheus.DefaultRegisterer)
}

// RegisterMetricsWith registers all the metrics with reg.
func RegisterMetricsWith(reg prometheus.Registerer) error {
	var collectors []prometheus.Collector
	collectors = append(collectors,
		// compute API calls
		ProviderInfo,
		ProviderOperationCount,
		ProviderOperationFailedCount,
		// catalog
		CatalogRefreshCount,
		CatalogRefreshFailedCount,
		CatalogZones,
		CatalogPlans,
		CatalogLastRefresh,
		// credentials sent by the broker
		CredentialsReceived,
	)

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}
