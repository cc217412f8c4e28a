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
	"log/slog"
	"net/http"
)

func (a *APIController) ListCatalogHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := a.catalog.List(ctx)
	if err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "listing catalog")
		handleError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, http.StatusOK, catalog)
}

func (a *APIController) UpdateCatalogHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	catalog, err := a.catalog.Refresh(ctx, provider)
	if err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "refreshing catalog")
		handleError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, http.StatusOK, catalog)
}
