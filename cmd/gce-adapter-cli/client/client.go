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

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	apiParams "github.com/nanobox-io/gce-adapter/apiserver/params"
	"github.com/nanobox-io/gce-adapter/auth"
	"github.com/nanobox-io/gce-adapter/params"
)

// NewClient returns a client for the adapter listening at baseURL. The
// service account is compacted to fit in a single header line.
func NewClient(baseURL string, serviceAccount []byte, debug bool) (*Client, error) {
	cli := resty.New().
		SetHeader("Accept", "application/json").
		SetDebug(debug)

	if len(serviceAccount) > 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, serviceAccount); err != nil {
			return nil, errors.Wrap(err, "parsing service account")
		}
		cli = cli.SetHeader(auth.ServiceAccountHeader, compact.String())
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  cli,
	}, nil
}

type Client struct {
	BaseURL string
	client  *resty.Client
}

func (c *Client) decodeAPIError(body []byte) (apiParams.APIErrorResponse, error) {
	var errDetails apiParams.APIErrorResponse
	if err := json.Unmarshal(body, &errDetails); err != nil {
		return apiParams.APIErrorResponse{}, fmt.Errorf("invalid response from server, use --debug for more info")
	}

	return errDetails, fmt.Errorf("error in API call: %s", errDetails.Errors)
}

func (c *Client) handleError(resp *resty.Response, err error, action string) error {
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, decErr := c.decodeAPIError(resp.Body())
	if apiErr.Errors == "" {
		return errors.Wrap(decErr, action)
	}
	return fmt.Errorf("error %s: %s", action, apiErr.Errors)
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for idx, part := range parts {
		escaped[idx] = url.PathEscape(part)
	}
	return c.BaseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) Meta() (params.Meta, error) {
	var response params.Meta
	resp, err := c.client.R().
		SetResult(&response).
		Get(c.url("meta"))
	if err := c.handleError(resp, err, "fetching meta"); err != nil {
		return params.Meta{}, err
	}
	return response, nil
}

func (c *Client) Verify() error {
	resp, err := c.client.R().
		Post(c.url("verify"))
	return c.handleError(resp, err, "verifying credentials")
}

func (c *Client) ListCatalog() (params.Catalog, error) {
	var response params.Catalog
	resp, err := c.client.R().
		SetResult(&response).
		Get(c.url("catalog"))
	if err := c.handleError(resp, err, "fetching catalog"); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) UpdateCatalog() (params.Catalog, error) {
	var response params.Catalog
	resp, err := c.client.R().
		SetResult(&response).
		Get(c.url("catalog", "update"))
	if err := c.handleError(resp, err, "updating catalog"); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) CreateServer(param params.CreateServerParams) (params.ServerCreated, error) {
	var response params.ServerCreated
	resp, err := c.client.R().
		SetBody(param).
		SetResult(&response).
		Post(c.url("servers"))
	if err := c.handleError(resp, err, "creating server"); err != nil {
		return params.ServerCreated{}, err
	}
	return response, nil
}

func (c *Client) GetServer(serverID string) (params.ServerDetails, error) {
	var response params.ServerDetails
	resp, err := c.client.R().
		SetResult(&response).
		Get(c.url("servers", serverID))
	if err := c.handleError(resp, err, "fetching server"); err != nil {
		return params.ServerDetails{}, err
	}
	return response, nil
}

func (c *Client) DeleteServer(serverID string) error {
	resp, err := c.client.R().
		Delete(c.url("servers", serverID))
	return c.handleError(resp, err, "deleting server")
}

func (c *Client) RebootServer(serverID string) error {
	resp, err := c.client.R().
		Patch(c.url("servers", serverID, "reboot"))
	return c.handleError(resp, err, "rebooting server")
}

func (c *Client) CreateKey(key string) (params.KeyCreated, error) {
	var response params.KeyCreated
	resp, err := c.client.R().
		SetBody(params.CreateKeyParams{Key: key}).
		SetResult(&response).
		Post(c.url("keys"))
	if err := c.handleError(resp, err, "adding key"); err != nil {
		return params.KeyCreated{}, err
	}
	return response, nil
}

func (c *Client) GetKey(keyID string) (params.KeyDetails, error) {
	var response params.KeyDetails
	resp, err := c.client.R().
		SetResult(&response).
		Get(c.url("keys", keyID))
	if err := c.handleError(resp, err, "fetching key"); err != nil {
		return params.KeyDetails{}, err
	}
	return response, nil
}

func (c *Client) DeleteKey(keyID string) error {
	resp, err := c.client.R().
		Delete(c.url("keys", keyID))
	return c.handleError(resp, err, "deleting key")
}
