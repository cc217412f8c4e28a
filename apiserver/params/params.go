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
	"fmt"
	"net/http"
)

const (
	BadRequestPrefix          = "Bad request: "
	NotFoundPrefix            = "Not found: "
	NotAllowedPrefix          = "Not Allowed: "
	NotImplementedPrefix      = "Not Implemented: "
	ServiceUnavailablePrefix  = "Service Unavailable: "
	InternalServerErrorPrefix = "Internal Server Error: "
)

// APIErrorResponse is the error envelope expected by the broker.
type APIErrorResponse struct {
	Status int    `json:"status"`
	Errors string `json:"errors"`
}

// NewAPIErrorResponse builds an envelope for status, prefixing msg with
// the reason phrase the broker expects for that status.
func NewAPIErrorResponse(status int, msg string) APIErrorResponse {
	var prefix string
	switch status {
	case http.StatusBadRequest:
		prefix = BadRequestPrefix
	case http.StatusNotFound:
		prefix = NotFoundPrefix
	case http.StatusMethodNotAllowed:
		prefix = NotAllowedPrefix
	case http.StatusNotImplemented:
		prefix = NotImplementedPrefix
	case http.StatusServiceUnavailable:
		prefix = ServiceUnavailablePrefix
	case http.StatusInternalServerError:
		prefix = InternalServerErrorPrefix
	default:
		prefix = fmt.Sprintf("%s: ", http.StatusText(status))
	}
	return APIErrorResponse{
		Status: status,
		Errors: prefix + msg,
	}
}

var (
	// NotFoundResponse is returned when no route matches the request
	NotFoundResponse = NewAPIErrorResponse(http.StatusNotFound, "The resource you are looking for was not found")
	// AuthHeaderRequiredResponse is returned when a protected route is
	// called without credentials
	AuthHeaderRequiredResponse = NewAPIErrorResponse(http.StatusBadRequest, "Auth-Service-Account header required")
)
