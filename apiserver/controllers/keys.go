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

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/nanobox-io/gce-adapter/auth"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	adapterParams "github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/providers/common"
)

// lockProjectKey waits for other key updates of the same project to
// finish. Updates rewrite the whole metadata document.
func (a *APIController) lockProjectKey(ctx context.Context, provider common.Provider) (func(), error) {
	projectID := provider.ProjectID()
	requestID := auth.RequestID(ctx)
	if !a.keyLocks.TryLock(projectID, requestID) {
		holder, _ := a.keyLocks.LockedBy(projectID)
		slog.DebugContext(ctx, "waiting for project key lock", "project", projectID, "held_by", holder)
		if err := a.keyLocks.LockWithContext(ctx, projectID, requestID); err != nil {
			return nil, errors.Wrap(err, "waiting for project key lock")
		}
	}
	return func() { a.keyLocks.Unlock(projectID) }, nil
}

func (a *APIController) CreateKeyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var param adapterParams.CreateKeyParams
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		handleError(ctx, w, adapterErrors.NewBadRequestError("invalid post body: %s", err))
		return
	}
	if err := param.Validate(); err != nil {
		handleError(ctx, w, err)
		return
	}

	unlock, err := a.lockProjectKey(ctx, provider)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	defer unlock()

	key, err := provider.SetProjectSSHKey(ctx, param.Key)
	if err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "setting project key")
		handleError(ctx, w, err)
		return
	}
	slog.InfoContext(ctx, "project key set", "user", key.User, "fingerprint", common.Fingerprint(key))
	writeResponse(ctx, w, http.StatusCreated, adapterParams.KeyCreated{ID: key.User})
}

func (a *APIController) GetKeyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	keyID := mux.Vars(r)["keyID"]
	key, err := provider.GetProjectSSHKey(ctx, keyID)
	if err != nil {
		if errors.Is(err, adapterErrors.ErrNotFound) {
			err = adapterErrors.NewNotFoundError("key with id: `%s` not found", keyID)
		}
		handleError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, http.StatusOK, adapterParams.KeyDetails{
		ID:        key.User,
		Name:      key.User,
		PublicKey: key.PublicKey,
	})
}

// DeleteKeyHandler clears the project key, regardless of who owns it.
func (a *APIController) DeleteKeyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	unlock, err := a.lockProjectKey(ctx, provider)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	defer unlock()

	if _, err := provider.SetProjectSSHKey(ctx, ""); err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(ctx, "clearing project key")
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
