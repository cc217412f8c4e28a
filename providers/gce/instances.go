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
	"fmt"

	"google.golang.org/api/compute/v1"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
	"github.com/nanobox-io/gce-adapter/util"
)

const (
	accessConfigOneToOneNAT = "ONE_TO_ONE_NAT"

	// errStopScan stops an aggregated list scan once the instance is found.
	errStopScan = stopScan("instance found")
)

type stopScan string

func (s stopScan) Error() string {
	return string(s)
}

func machineTypeURL(zone, machineType string) string {
	return fmt.Sprintf("zones/%s/machineTypes/%s", zone, machineType)
}

func (g *gceProvider) instanceSpec(createParams params.CreateInstanceParams, sourceImage string) *compute.Instance {
	instance := &compute.Instance{
		Name:        createParams.Name,
		MachineType: machineTypeURL(createParams.Zone, createParams.MachineType),
		Disks: []*compute.AttachedDisk{
			{
				AutoDelete: true,
				Boot:       true,
				Type:       "PERSISTENT",
				InitializeParams: &compute.AttachedDiskInitializeParams{
					SourceImage: sourceImage,
				},
			},
		},
		NetworkInterfaces: []*compute.NetworkInterface{
			{
				Network: g.cfg.Network,
				AccessConfigs: []*compute.AccessConfig{
					{
						Name: g.cfg.NATName,
						Type: accessConfigOneToOneNAT,
					},
				},
			},
		},
	}

	if createParams.SSHKey != "" {
		value := createParams.SSHKey
		if key, err := common.ParseSSHKey(createParams.SSHKey); err == nil {
			value = key.MetadataValue()
		}
		instance.Metadata = &compute.Metadata{
			Items: []*compute.MetadataItems{
				{
					Key:   common.SSHKeysMetadataKey,
					Value: &value,
				},
			},
		}
	}
	return instance
}

func (g *gceProvider) CreateInstance(ctx context.Context, createParams params.CreateInstanceParams) (params.Operation, error) {
	image, err := g.svc.Images.GetFromFamily(g.cfg.ImageProject, g.cfg.ImageFamily).Context(ctx).Do()
	if err != nil {
		return params.Operation{}, apiError(err, "fetching boot image")
	}

	spec := g.instanceSpec(createParams, image.SelfLink)
	op, err := g.svc.Instances.Insert(g.projectID, createParams.Zone, spec).Context(ctx).Do()
	if err != nil {
		return params.Operation{}, apiError(err, "creating instance")
	}
	return operationFromAPI(op), nil
}

func (g *gceProvider) FindInstance(ctx context.Context, name string) (params.Instance, error) {
	var found *compute.Instance

	call := g.svc.Instances.AggregatedList(g.projectID).Context(ctx)
	err := call.Pages(ctx, func(page *compute.InstanceAggregatedList) error {
		for _, scoped := range page.Items {
			for _, instance := range scoped.Instances {
				if instance.Name == name {
					found = instance
					return errStopScan
				}
			}
		}
		return nil
	})
	if err != nil && err != errStopScan {
		return params.Instance{}, apiError(err, "listing instances")
	}

	if found == nil {
		return params.Instance{}, adapterErrors.NewNotFoundError("instance %s not found", name)
	}
	return instanceFromAPI(found), nil
}

func (g *gceProvider) DeleteInstance(ctx context.Context, name string) (params.Operation, error) {
	instance, err := g.FindInstance(ctx, name)
	if err != nil {
		return params.Operation{}, err
	}

	op, err := g.svc.Instances.Delete(g.projectID, instance.Zone, instance.Name).Context(ctx).Do()
	if err != nil {
		return params.Operation{}, apiError(err, "deleting instance")
	}
	return operationFromAPI(op), nil
}

func (g *gceProvider) RebootInstance(ctx context.Context, name string) (params.Operation, error) {
	instance, err := g.FindInstance(ctx, name)
	if err != nil {
		return params.Operation{}, err
	}

	op, err := g.svc.Instances.Reset(g.projectID, instance.Zone, instance.Name).Context(ctx).Do()
	if err != nil {
		return params.Operation{}, apiError(err, "resetting instance")
	}
	return operationFromAPI(op), nil
}

func instanceFromAPI(instance *compute.Instance) params.Instance {
	ret := params.Instance{
		Name:        instance.Name,
		Zone:        util.ResourceName(instance.Zone),
		MachineType: util.ResourceName(instance.MachineType),
		Status:      params.InstanceStatus(instance.Status),
	}

	if len(instance.NetworkInterfaces) > 0 {
		iface := instance.NetworkInterfaces[0]
		ret.InternalIP = iface.NetworkIP
		if len(iface.AccessConfigs) > 0 {
			ret.ExternalIP = iface.AccessConfigs[0].NatIP
		}
	}
	return ret
}

func operationFromAPI(op *compute.Operation) params.Operation {
	return params.Operation{
		Name:          op.Name,
		Zone:          util.ResourceName(op.Zone),
		OperationType: op.OperationType,
		Status:        op.Status,
		TargetLink:    op.TargetLink,
	}
}
