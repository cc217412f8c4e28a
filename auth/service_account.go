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

package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	apiParams "github.com/nanobox-io/gce-adapter/apiserver/params"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/metrics"
	"github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
	"github.com/nanobox-io/gce-adapter/util"
)

// ServiceAccountHeader carries the service account JSON key on every
// authenticated request.
const ServiceAccountHeader = "Auth-Service-Account"

// serviceAccountMiddleware builds a compute provider from the credentials
// sent with the request
type serviceAccountMiddleware struct {
	factory common.Factory
}

// NewServiceAccountMiddleware returns a populated serviceAccountMiddleware
func NewServiceAccountMiddleware(factory common.Factory) (Middleware, error) {
	if factory == nil {
		return nil, errors.New("provider factory is required")
	}
	return &serviceAccountMiddleware{
		factory: factory,
	}, nil
}

func invalidAuthResponse(ctx context.Context, w http.ResponseWriter, err error) {
	slog.With(slog.Any("error", err)).DebugContext(ctx, "rejecting credentials")

	resp := apiParams.AuthHeaderRequiredResponse
	var authErr *adapterErrors.AuthError
	if errors.As(err, &authErr) {
		resp = apiParams.NewAPIErrorResponse(http.StatusBadRequest, authErr.Error())
	} else if err != nil {
		resp = apiParams.NewAPIErrorResponse(http.StatusBadRequest, err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "failed to encode response")
	}
}

func credentialsReceived(valid bool, reason string) {
	validLabel := "false"
	if valid {
		validLabel = "true"
	}
	metrics.CredentialsReceived.WithLabelValues(
		validLabel, // label: valid
		reason,     // label: reason
	).Inc()
}

// Middleware implements the middleware interface
func (amw *serviceAccountMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		header := r.Header.Get(ServiceAccountHeader)
		if header == "" {
			credentialsReceived(false, "missing_header")
			invalidAuthResponse(ctx, w, adapterErrors.ErrAuthHeaderRequired)
			return
		}

		sa, err := params.ParseServiceAccount([]byte(header))
		if err != nil {
			credentialsReceived(false, "invalid_service_account")
			invalidAuthResponse(ctx, w, err)
			return
		}

		ctx = util.WithSlogContext(ctx, slog.String("project", sa.ProjectID))
		provider, err := amw.factory(ctx, sa)
		if err != nil {
			credentialsReceived(false, "provider_rejected")
			invalidAuthResponse(ctx, w, err)
			return
		}
		credentialsReceived(true, "")

		ctx = SetServiceAccount(ctx, sa)
		ctx = SetProvider(ctx, provider)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
