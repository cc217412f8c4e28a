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

package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"github.com/nanobox-io/gce-adapter/apiserver/params"
	"github.com/nanobox-io/gce-adapter/auth"
	"github.com/nanobox-io/gce-adapter/catalog"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/locking"
	"github.com/nanobox-io/gce-adapter/providers/common"
)

// invalidKeyFormatPrefix precedes key validation errors in responses.
const invalidKeyFormatPrefix = "Invalid Key Format. "

func NewAPIController(synchronizer *catalog.Synchronizer) (*APIController, error) {
	if synchronizer == nil {
		return nil, errors.New("catalog synchronizer is required")
	}
	return &APIController{
		catalog:  synchronizer,
		keyLocks: locking.NewLocalLocker(),
	}, nil
}

type APIController struct {
	catalog *catalog.Synchronizer
	// keyLocks serializes project key updates, keyed by project ID.
	keyLocks locking.Locker
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	origErr := errors.Cause(err)

	var apiErr params.APIErrorResponse
	switch origErr.(type) {
	case *adapterErrors.InvalidKeyFormatError:
		apiErr = params.NewAPIErrorResponse(http.StatusBadRequest, invalidKeyFormatPrefix+origErr.Error())
	case *adapterErrors.AuthError, *adapterErrors.BadRequestError:
		apiErr = params.NewAPIErrorResponse(http.StatusBadRequest, origErr.Error())
	case *adapterErrors.NotFoundError:
		apiErr = params.NewAPIErrorResponse(http.StatusNotFound, origErr.Error())
	case *adapterErrors.NotImplementedError:
		apiErr = params.NewAPIErrorResponse(http.StatusNotImplemented, origErr.Error())
	case *adapterErrors.CatalogUnavailableError:
		apiErr = params.NewAPIErrorResponse(http.StatusServiceUnavailable, origErr.Error())
	default:
		apiErr = params.NewAPIErrorResponse(http.StatusInternalServerError, origErr.Error())
	}

	w.WriteHeader(apiErr.Status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "failed to encode response")
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "failed to encode response")
	}
}

// requestProvider returns the provider the auth middleware attached to
// the request.
func requestProvider(ctx context.Context) (common.Provider, error) {
	provider := auth.Provider(ctx)
	if provider == nil {
		return nil, adapterErrors.ErrAuthHeaderRequired
	}
	return provider, nil
}

// NotFoundHandler is returned when an invalid URL is acccessed
func (a *APIController) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeResponse(ctx, w, http.StatusNotFound, params.NotFoundResponse)
}

// MethodNotAllowedHandler is returned when a route exists, but not for
// the request method
func (a *APIController) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeResponse(ctx, w, http.StatusMethodNotAllowed, params.NewAPIErrorResponse(http.StatusMethodNotAllowed, r.Method))
}
