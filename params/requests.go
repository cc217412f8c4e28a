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

package params

import (
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/util"
)

type CreateServerParams struct {
	Region string `json:"region,omitempty"`
	Size   string `json:"size,omitempty"`
	Name   string `json:"name,omitempty"`
	// SSHKey is only sent by older brokers. Newer ones rely on the
	// project wide key.
	SSHKey string `json:"ssh_key,omitempty"`
}

func (c *CreateServerParams) Validate() error {
	if c.Region == "" {
		return adapterErrors.NewBadRequestError("missing region")
	}

	if c.Size == "" {
		return adapterErrors.NewBadRequestError("missing size")
	}

	if c.Name == "" {
		return adapterErrors.NewBadRequestError("missing name")
	}

	if !util.IsReversibleName(c.Name) {
		return adapterErrors.NewBadRequestError("invalid name %q: names must not contain \"-dot-\"", c.Name)
	}
	return nil
}

type CreateKeyParams struct {
	Key string `json:"key,omitempty"`
}

func (c *CreateKeyParams) Validate() error {
	if c.Key == "" {
		return adapterErrors.NewBadRequestError("missing key")
	}
	return nil
}
