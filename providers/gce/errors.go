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
	"net/http"

	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
)

// apiError converts a compute API error into one of our error types.
func apiError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return adapterErrors.NewProviderError("%s: %s", operation, err)
	}

	msg := gErr.Message
	if msg == "" {
		msg = http.StatusText(gErr.Code)
	}

	switch gErr.Code {
	case http.StatusBadRequest:
		return adapterErrors.NewBadRequestError("%s: %s", operation, msg)
	case http.StatusNotFound:
		return adapterErrors.NewNotFoundError("%s: %s", operation, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return adapterErrors.NewAuthError("%s: %s", operation, msg)
	default:
		return adapterErrors.NewProviderError("%s: %s", operation, msg)
	}
}
