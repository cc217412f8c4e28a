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
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	adapterParams "github.com/nanobox-io/gce-adapter/params"
	"github.com/nanobox-io/gce-adapter/util"
)

// decodeCreateServerParams accepts both JSON bodies and the form encoded
// bodies sent by older brokers.
// maxFormMemory bounds the multipart body kept in memory.
const maxFormMemory = 1 << 20

// createServerParamsFromForm reads the parsed post form of r.
func createServerParamsFromForm(r *http.Request) adapterParams.CreateServerParams {
	return adapterParams.CreateServerParams{
		Region: r.PostFormValue("region"),
		Size:   r.PostFormValue("size"),
		Name:   r.PostFormValue("name"),
		SSHKey: r.PostFormValue("ssh_key"),
	}
}

func decodeCreateServerParams(r *http.Request) (adapterParams.CreateServerParams, error) {
	var param adapterParams.CreateServerParams

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return param, adapterErrors.NewBadRequestError("invalid form body: %s", err)
		}
		param = createServerParamsFromForm(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return param, adapterErrors.NewBadRequestError("invalid form body: %s", err)
		}
		param = createServerParamsFromForm(r)
	default:
		if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
			return param, adapterErrors.NewBadRequestError("invalid post body: %s", err)
		}
	}
	return param, nil
}

func (a *APIController) CreateServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	param, err := decodeCreateServerParams(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	if err := param.Validate(); err != nil {
		handleError(ctx, w, err)
		return
	}

	name := util.EncodeName(param.Name)
	op, err := provider.CreateInstance(ctx, adapterParams.CreateInstanceParams{
		Name:        name,
		Zone:        param.Region,
		MachineType: param.Size,
		SSHKey:      param.SSHKey,
	})
	if err != nil {
		slog.With(slog.Any("error", err)).ErrorContext(
			ctx, "creating server",
			"name", util.SanitizeLogEntry(param.Name),
			"region", util.SanitizeLogEntry(param.Region),
			"size", util.SanitizeLogEntry(param.Size))
		handleError(ctx, w, err)
		return
	}

	id := util.ResourceName(op.TargetLink)
	if id == "" {
		id = name
	}
	slog.InfoContext(ctx, "server ordered", "server", id, "operation", op.Name)
	writeResponse(ctx, w, http.StatusCreated, adapterParams.ServerCreated{ID: util.DecodeName(id)})
}

func (a *APIController) GetServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	name := util.EncodeName(mux.Vars(r)["serverID"])
	instance, err := provider.FindInstance(ctx, name)
	if err != nil {
		if errors.Is(err, adapterErrors.ErrNotFound) {
			err = adapterErrors.NewNotFoundError("Server with id: `%s` not found", name)
		}
		handleError(ctx, w, err)
		return
	}

	writeResponse(ctx, w, http.StatusOK, adapterParams.ServerDetails{
		ID:         util.DecodeName(instance.Name),
		Status:     instance.Status.BrokerStatus(),
		Name:       util.DecodeName(instance.Name),
		InternalIP: instance.InternalIP,
		ExternalIP: instance.ExternalIP,
	})
}

func (a *APIController) DeleteServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	name := util.EncodeName(mux.Vars(r)["serverID"])
	op, err := provider.DeleteInstance(ctx, name)
	if err != nil {
		if errors.Is(err, adapterErrors.ErrNotFound) {
			err = adapterErrors.NewNotFoundError(
				"No Server with id: `%s` was previously ordered. Cannot cancel non-existing server", name)
		}
		handleError(ctx, w, err)
		return
	}
	slog.InfoContext(ctx, "server deleted", "server", name, "operation", op.Name)
	w.WriteHeader(http.StatusOK)
}

func (a *APIController) RebootServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	name := util.EncodeName(mux.Vars(r)["serverID"])
	op, err := provider.RebootInstance(ctx, name)
	if err != nil {
		if errors.Is(err, adapterErrors.ErrNotFound) {
			err = adapterErrors.NewNotFoundError("Server with id: `%s` not found", name)
		}
		handleError(ctx, w, err)
		return
	}
	slog.InfoContext(ctx, "server rebooted", "server", name, "operation", op.Name)
	w.WriteHeader(http.StatusOK)
}

// RenameServerHandler always fails. Instance names are immutable on
// compute engine.
func (a *APIController) RenameServerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handleError(ctx, w, adapterErrors.NewNotImplementedError(
		"server %s cannot be renamed", mux.Vars(r)["serverID"]))
}
