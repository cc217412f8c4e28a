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

	"github.com/nanobox-io/gce-adapter/auth"
	adapterParams "github.com/nanobox-io/gce-adapter/params"
)

const homeDescription = "A provider for deploying Nanobox apps to Google Cloud."

const metaInstructions = `Sign into the Google Cloud Developers' Console & create a project.
Enable the Compute Engine API by going to the API Management page of the
created project.

Download your service account JSON key file by doing the following:

<b>1.</b> Go to
<a href="https://console.developers.google.com/project/_/apiui/credential"
target="_blank">the credentials tab</a> on the API Management page.

<b>2.</b> Select <b>Service account key</b> from the
<em>new credentials</em> menu

<b>3.</b> Select a service account, the JSON key type and
<b>click create</b>.

Keep the JSON file safe.

We will copy the contents of the JSON key file into the
<b>Service Account</b> field on the next page.
`

// ProviderMeta is the capability descriptor advertised to the broker.
var ProviderMeta = adapterParams.Meta{
	ID:             "gce",
	Name:           "Google Compute Engine",
	ServerNickName: "vm",
	DefaultRegion:  "us-central1-a",
	DefaultSize:    "f1-micro",
	DefaultPlan:    "f1-micro",
	CanReboot:      true,
	CanRename:      true,
	CredentialFields: []adapterParams.CredentialField{
		{Key: "service-account", Label: "service account"},
	},
	Instructions: metaInstructions,
}

func (a *APIController) HomeHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(r.Context(), w, http.StatusOK, adapterParams.Description{Description: homeDescription})
}

func (a *APIController) MetaHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(r.Context(), w, http.StatusOK, ProviderMeta)
}

// VerifyHandler succeeds if the auth middleware was able to build a
// provider from the credentials sent with the request.
func (a *APIController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider, err := requestProvider(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	sa := auth.ServiceAccount(ctx)
	slog.InfoContext(ctx, "credentials verified", "project", provider.ProjectID(), "client_email", sa.ClientEmail, "key_id", sa.PrivateKeyID)
	w.WriteHeader(http.StatusOK)
}
