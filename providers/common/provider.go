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

package common

import (
	"context"

	"github.com/nanobox-io/gce-adapter/params"
)

// Provider is a compute client bound to a single service account. A new
// one is built for every request.
type Provider interface {
	// ProjectID returns the project the credentials belong to.
	ProjectID() string
	// Identity returns the service account email.
	Identity() string

	// MachineTypes lists the machine types of every zone, keyed by the
	// zone scope (zones/<zone>).
	MachineTypes(ctx context.Context) (map[string][]params.MachineType, error)
	// CreateInstance requests a new instance. It does not wait for the
	// instance to be provisioned.
	CreateInstance(ctx context.Context, createParams params.CreateInstanceParams) (params.Operation, error)
	// FindInstance looks up an instance by name in all zones.
	FindInstance(ctx context.Context, name string) (params.Instance, error)
	// DeleteInstance removes an instance by name.
	DeleteInstance(ctx context.Context, name string) (params.Operation, error)
	// RebootInstance performs a hard reset of an instance.
	RebootInstance(ctx context.Context, name string) (params.Operation, error)

	// SetProjectSSHKey overwrites the project wide SSH key. An empty key
	// clears it.
	SetProjectSSHKey(ctx context.Context, key string) (params.SSHKey, error)
	// GetProjectSSHKey returns the project wide SSH key if it is owned
	// by id.
	GetProjectSSHKey(ctx context.Context, id string) (params.SSHKey, error)
}

// Factory builds a Provider from a service account.
type Factory func(ctx context.Context, sa params.ServiceAccount) (Provider, error)
