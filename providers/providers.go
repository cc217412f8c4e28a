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
package providers

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nanobox-io/gce-adapter/config"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/metrics"
	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
	"github.com/nanobox-io/gce-adapter/providers/gce"
)

// NewFactory returns the provider factory used by the API server. Every
// provider it builds records its compute API calls in the metrics package.
func NewFactory(cfg config.GCE, opts ...gce.Option) common.Factory {
	metrics.ProviderInfo.WithLabelValues(
		"gce",            // label: name
		cfg.ImageProject, // label: image_project
		cfg.ImageFamily,  // label: image_family
		cfg.Endpoint,     // label: endpoint
	).Set(1)

	return Instrument(gce.NewFactory(cfg, opts...))
}

// Instrument wraps the providers built by factory with metrics.
func Instrument(factory common.Factory) common.Factory {
	return func(ctx context.Context, sa params.ServiceAccount) (common.Provider, error) {
		provider, err := factory(ctx, sa)
		if err != nil {
			return nil, errors.Wrap(err, "creating provider")
		}
		return &instrumented{provider: provider}, nil
	}
}

type instrumented struct {
	provider common.Provider
}

func observe(operation string, err error) {
	metrics.ProviderOperationCount.WithLabelValues(
		operation, // label: operation
	).Inc()
	// Missing instances and keys are a normal answer, not a failed call.
	if err != nil && !errors.Is(err, adapterErrors.ErrNotFound) {
		metrics.ProviderOperationFailedCount.WithLabelValues(
			operation, // label: operation
		).Inc()
	}
}

func (i *instrumented) ProjectID() string {
	return i.provider.ProjectID()
}

func (i *instrumented) Identity() string {
	return i.provider.Identity()
}

func (i *instrumented) MachineTypes(ctx context.Context) (map[string][]params.MachineType, error) {
	ret, err := i.provider.MachineTypes(ctx)
	observe("MachineTypes", err)
	return ret, err
}

func (i *instrumented) CreateInstance(ctx context.Context, createParams params.CreateInstanceParams) (params.Operation, error) {
	op, err := i.provider.CreateInstance(ctx, createParams)
	observe("CreateInstance", err)
	return op, err
}

func (i *instrumented) FindInstance(ctx context.Context, name string) (params.Instance, error) {
	instance, err := i.provider.FindInstance(ctx, name)
	observe("FindInstance", err)
	return instance, err
}

func (i *instrumented) DeleteInstance(ctx context.Context, name string) (params.Operation, error) {
	op, err := i.provider.DeleteInstance(ctx, name)
	observe("DeleteInstance", err)
	return op, err
}

func (i *instrumented) RebootInstance(ctx context.Context, name string) (params.Operation, error) {
	op, err := i.provider.RebootInstance(ctx, name)
	observe("RebootInstance", err)
	return op, err
}

func (i *instrumented) SetProjectSSHKey(ctx context.Context, key string) (params.SSHKey, error) {
	ret, err := i.provider.SetProjectSSHKey(ctx, key)
	observe("SetProjectSSHKey", err)
	return ret, err
}

func (i *instrumented) GetProjectSSHKey(ctx context.Context, id string) (params.SSHKey, error) {
	ret, err := i.provider.GetProjectSSHKey(ctx, id)
	observe("GetProjectSSHKey", err)
	return ret, err
}
