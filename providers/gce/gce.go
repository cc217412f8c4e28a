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
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/nanobox-io/gce-adapter/config"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
)

var _ common.Provider = &gceProvider{}

// Option customizes how the compute client is built.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient makes the provider use client as is, instead of an
// oauth2 client derived from the service account. Used to point the
// provider at a fake compute API.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// NewFactory returns a common.Factory that builds GCE providers using cfg.
func NewFactory(cfg config.GCE, opts ...Option) common.Factory {
	return func(ctx context.Context, sa params.ServiceAccount) (common.Provider, error) {
		return NewProvider(ctx, sa, cfg, opts...)
	}
}

// NewProvider returns a compute engine provider bound to sa.
func NewProvider(ctx context.Context, sa params.ServiceAccount, cfg config.GCE, opts ...Option) (common.Provider, error) {
	if err := sa.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		jwtCfg, err := google.JWTConfigFromJSON(sa.Raw, compute.ComputeScope)
		if err != nil {
			return nil, adapterErrors.NewAuthError("invalid service account: %s", err)
		}
		httpClient = jwtCfg.Client(ctx)
	}

	clientOpts := []option.ClientOption{
		option.WithHTTPClient(httpClient),
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := compute.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating compute service")
	}

	return &gceProvider{
		svc:       svc,
		cfg:       cfg,
		projectID: sa.ProjectID,
		identity:  sa.ClientEmail,
	}, nil
}

type gceProvider struct {
	svc       *compute.Service
	cfg       config.GCE
	projectID string
	identity  string
}

func (g *gceProvider) ProjectID() string {
	return g.projectID
}

func (g *gceProvider) Identity() string {
	return g.identity
}
