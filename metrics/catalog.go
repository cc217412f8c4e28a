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

import "github.com/prometheus/client_golang/prometheus"

var (
	CatalogRefreshCount = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsCatalogSubsystem,
		Name:      "refresh_total",
		Help:      "Total number of catalog refresh attempts",
	})

	CatalogRefreshFailedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsCatalogSubsystem,
		Name:      "refresh_failed_total",
		Help:      "Total number of failed catalog refreshes",
	}, []string{"reason"})

	CatalogZones = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsCatalogSubsystem,
		Name:      "zones",
		Help:      "Number of zones in the stored catalog",
	})

	CatalogPlans = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsCatalogSubsystem,
		Name:      "plans",
		Help:      "Number of plans in the stored catalog",
	})

	CatalogLastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsCatalogSubsystem,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last successful catalog refresh",
	})
)
