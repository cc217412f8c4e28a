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

package gce

import (
	"context"

	"google.golang.org/api/compute/v1"

	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/util"
)

func (g *gceProvider) MachineTypes(ctx context.Context) (map[string][]params.MachineType, error) {
	ret := map[string][]params.MachineType{}

	call := g.svc.MachineTypes.AggregatedList(g.projectID).Context(ctx)
	err := call.Pages(ctx, func(page *compute.MachineTypeAggregatedList) error {
		for scope, scoped := range page.Items {
			for _, mt := range scoped.MachineTypes {
				ret[scope] = append(ret[scope], params.MachineType{
					Name:        mt.Name,
					Description: mt.Description,
					Zone:        util.ResourceName(mt.Zone),
					GuestCPUs:   mt.GuestCpus,
					MemoryMB:    mt.MemoryMb,
					MaxDiskGB:   mt.MaximumPersistentDisksSizeGb,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, apiError(err, "listing machine types")
	}
	return ret, nil
}
