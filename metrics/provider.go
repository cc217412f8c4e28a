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

var (
	ProviderInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsProviderSubsystem,
		Name:      "info",
		Help:      "Info of the configured compute provider",
	}, []string{"name", "image_project", "image_family", "endpoint"})

	ProviderOperationCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsProviderSubsystem,
		Name:      "operation_total",
		Help:      "Total number of compute API operation attempts",
	}, []string{"operation"})

	ProviderOperationFailedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsProviderSubsystem,
		Name:      "operation_failed_total",
		Help:      "Total number of failed compute API operation attempts",
	}, []string{"operation"})
)
