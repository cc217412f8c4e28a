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

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
)

func (g *gceProvider) commonMetadata(ctx context.Context) (*compute.Metadata, error) {
	project, err := g.svc.Projects.Get(g.projectID).Context(ctx).Do()
	if err != nil {
		return nil, apiError(err, "fetching project")
	}
	if project.CommonInstanceMetadata == nil {
		return &compute.Metadata{}, nil
	}
	return project.CommonInstanceMetadata, nil
}

func (g *gceProvider) SetProjectSSHKey(ctx context.Context, key string) (params.SSHKey, error) {
	var parsed params.SSHKey
	if key != "" {
		var err error
		parsed, err = common.ParseSSHKey(key)
		if err != nil {
			return params.SSHKey{}, err
		}
	}

	metadata, err := g.commonMetadata(ctx)
	if err != nil {
		return params.SSHKey{}, err
	}

	items := make([]*compute.MetadataItems, 0, len(metadata.Items)+1)
	for _, item := range metadata.Items {
		if item == nil || item.Key == common.SSHKeysMetadataKey {
			continue
		}
		items = append(items, item)
	}
	if key != "" {
		value := parsed.MetadataValue()
		items = append(items, &compute.MetadataItems{
			Key:   common.SSHKeysMetadataKey,
			Value: &value,
		})
	}

	update := &compute.Metadata{
		Fingerprint: metadata.Fingerprint,
		Items:       items,
	}
	if _, err := g.svc.Projects.SetCommonInstanceMetadata(g.projectID, update).Context(ctx).Do(); err != nil {
		return params.SSHKey{}, apiError(err, "updating project metadata")
	}
	return parsed, nil
}

func (g *gceProvider) GetProjectSSHKey(ctx context.Context, id string) (params.SSHKey, error) {
	metadata, err := g.commonMetadata(ctx)
	if err != nil {
		return params.SSHKey{}, err
	}

	for _, item := range metadata.Items {
		if item == nil || item.Key != common.SSHKeysMetadataKey || item.Value == nil {
			continue
		}
		key, err := common.ParseMetadataValue(*item.Value)
		if err != nil || key.User != id {
			break
		}
		return key, nil
	}
	return params.SSHKey{}, adapterErrors.NewNotFoundError("key %s not found", id)
}
