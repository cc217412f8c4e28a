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

package testing

import (
	"context"
	"fmt"
	"sync"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
)

var _ common.Provider = &FakeProvider{}

// FakeProvider is an in memory common.Provider.
type FakeProvider struct {
	mux sync.Mutex

	Project string
	Email   string

	MachineTypeList map[string][]params.MachineType
	Instances       map[string]params.Instance
	Key             *params.SSHKey

	// Err, if set, is returned by every operation.
	Err error
	// Calls records the operations invoked, in order.
	Calls []string
}

func NewFakeProvider(projectID string) *FakeProvider {
	return &FakeProvider{
		Project:         projectID,
		Email:           fmt.Sprintf("nanobox@%s.iam.gserviceaccount.com", projectID),
		MachineTypeList: map[string][]params.MachineType{},
		Instances:       map[string]params.Instance{},
	}
}

// Factory returns a common.Factory that always hands out f.
func (f *FakeProvider) Factory() common.Factory {
	return func(_ context.Context, sa params.ServiceAccount) (common.Provider, error) {
		if err := sa.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	}
}

func (f *FakeProvider) record(call string) error {
	f.Calls = append(f.Calls, call)
	return f.Err
}

func (f *FakeProvider) ProjectID() string {
	return f.Project
}

func (f *FakeProvider) Identity() string {
	return f.Email
}

func (f *FakeProvider) MachineTypes(_ context.Context) (map[string][]params.MachineType, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("MachineTypes"); err != nil {
		return nil, err
	}
	ret := make(map[string][]params.MachineType, len(f.MachineTypeList))
	for zone, types := range f.MachineTypeList {
		ret[zone] = append([]params.MachineType(nil), types...)
	}
	return ret, nil
}

func (f *FakeProvider) CreateInstance(_ context.Context, createParams params.CreateInstanceParams) (params.Operation, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("CreateInstance"); err != nil {
		return params.Operation{}, err
	}
	f.Instances[createParams.Name] = params.Instance{
		Name:        createParams.Name,
		Zone:        createParams.Zone,
		MachineType: createParams.MachineType,
		Status:      "PROVISIONING",
	}
	return params.Operation{
		Name:          "operation-" + createParams.Name,
		Zone:          createParams.Zone,
		OperationType: "insert",
		Status:        "PENDING",
		TargetLink: fmt.Sprintf(
			"https://compute.googleapis.com/compute/v1/projects/%s/zones/%s/instances/%s",
			f.Project, createParams.Zone, createParams.Name),
	}, nil
}

func (f *FakeProvider) FindInstance(_ context.Context, name string) (params.Instance, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("FindInstance"); err != nil {
		return params.Instance{}, err
	}
	instance, ok := f.Instances[name]
	if !ok {
		return params.Instance{}, adapterErrors.NewNotFoundError("instance %s not found", name)
	}
	return instance, nil
}

func (f *FakeProvider) DeleteInstance(_ context.Context, name string) (params.Operation, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("DeleteInstance"); err != nil {
		return params.Operation{}, err
	}
	instance, ok := f.Instances[name]
	if !ok {
		return params.Operation{}, adapterErrors.NewNotFoundError("instance %s not found", name)
	}
	delete(f.Instances, name)
	return params.Operation{Name: "delete-" + name, Zone: instance.Zone, OperationType: "delete", Status: "PENDING"}, nil
}

func (f *FakeProvider) RebootInstance(_ context.Context, name string) (params.Operation, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("RebootInstance"); err != nil {
		return params.Operation{}, err
	}
	instance, ok := f.Instances[name]
	if !ok {
		return params.Operation{}, adapterErrors.NewNotFoundError("instance %s not found", name)
	}
	return params.Operation{Name: "reset-" + name, Zone: instance.Zone, OperationType: "reset", Status: "PENDING"}, nil
}

func (f *FakeProvider) SetProjectSSHKey(_ context.Context, key string) (params.SSHKey, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("SetProjectSSHKey"); err != nil {
		return params.SSHKey{}, err
	}
	if key == "" {
		f.Key = nil
		return params.SSHKey{}, nil
	}
	parsed, err := common.ParseSSHKey(key)
	if err != nil {
		return params.SSHKey{}, err
	}
	f.Key = &parsed
	return parsed, nil
}

func (f *FakeProvider) GetProjectSSHKey(_ context.Context, id string) (params.SSHKey, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if err := f.record("GetProjectSSHKey"); err != nil {
		return params.SSHKey{}, err
	}
	if f.Key == nil || f.Key.User != id {
		return params.SSHKey{}, adapterErrors.NewNotFoundError("key %s not found", id)
	}
	return *f.Key, nil
}
