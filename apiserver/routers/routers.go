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

package routers

import (
	"io"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/nanobox-io/gce-adapter/apiserver/controllers"
	"github.com/nanobox-io/gce-adapter/auth"
)

// NewAPIRouter returns the router serving the broker API. If metricsHandler
// is not nil, it is served on /metrics.
func NewAPIRouter(han *controllers.APIController, logWriter io.Writer, authMiddleware auth.Middleware, metricsHandler http.Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(auth.NewRequestIDMiddleware().Middleware)
	log := gorillaHandlers.CombinedLoggingHandler

	public := func(h http.HandlerFunc) http.Handler {
		return log(logWriter, h)
	}
	// Every route below that is wrapped with protected requires the
	// Auth-Service-Account header.
	protected := func(h http.HandlerFunc) http.Handler {
		return log(logWriter, authMiddleware.Middleware(h))
	}

	///////////////////
	// Meta handlers //
	///////////////////
	router.Handle("/", public(han.HomeHandler)).Methods("GET")
	router.Handle("/meta", public(han.MetaHandler)).Methods("GET")
	router.Handle("/meta/", public(han.MetaHandler)).Methods("GET")
	router.Handle("/verify", protected(han.VerifyHandler)).Methods("POST")
	router.Handle("/verify/", protected(han.VerifyHandler)).Methods("POST")

	/////////////
	// Catalog //
	/////////////
	router.Handle("/catalog", public(han.ListCatalogHandler)).Methods("GET")
	router.Handle("/catalog/", public(han.ListCatalogHandler)).Methods("GET")
	router.Handle("/catalog/update", protected(han.UpdateCatalogHandler)).Methods("GET")
	router.Handle("/catalog/update/", protected(han.UpdateCatalogHandler)).Methods("GET")
	router.Handle("/admin/catalog", protected(han.UpdateCatalogHandler)).Methods("GET")
	router.Handle("/admin/catalog/", protected(han.UpdateCatalogHandler)).Methods("GET")

	/////////////
	// Servers //
	/////////////
	// Create server
	router.Handle("/servers", protected(han.CreateServerHandler)).Methods("POST")
	router.Handle("/servers/", protected(han.CreateServerHandler)).Methods("POST")
	// Reboot server
	router.Handle("/servers/{serverID}/reboot", protected(han.RebootServerHandler)).Methods("PATCH", "POST")
	router.Handle("/servers/{serverID}/reboot/", protected(han.RebootServerHandler)).Methods("PATCH", "POST")
	// Rename server
	router.Handle("/servers/{serverID}/rename", protected(han.RenameServerHandler)).Methods("PATCH", "POST")
	router.Handle("/servers/{serverID}/rename/", protected(han.RenameServerHandler)).Methods("PATCH", "POST")
	// Get server
	router.Handle("/servers/{serverID}", protected(han.GetServerHandler)).Methods("GET")
	router.Handle("/servers/{serverID}/", protected(han.GetServerHandler)).Methods("GET")
	// Delete server
	router.Handle("/servers/{serverID}", protected(han.DeleteServerHandler)).Methods("DELETE")
	router.Handle("/servers/{serverID}/", protected(han.DeleteServerHandler)).Methods("DELETE")

	//////////
	// Keys //
	//////////
	// Create key
	router.Handle("/keys", protected(han.CreateKeyHandler)).Methods("POST")
	router.Handle("/keys/", protected(han.CreateKeyHandler)).Methods("POST")
	// Get key
	router.Handle("/keys/{keyID}", protected(han.GetKeyHandler)).Methods("GET")
	router.Handle("/keys/{keyID}/", protected(han.GetKeyHandler)).Methods("GET")
	// Delete key
	router.Handle("/keys/{keyID}", protected(han.DeleteKeyHandler)).Methods("DELETE")
	router.Handle("/keys/{keyID}/", protected(han.DeleteKeyHandler)).Methods("DELETE")

	if metricsHandler != nil {
		router.Handle("/metrics", log(logWriter, metricsHandler)).Methods("GET")
	}

	router.NotFoundHandler = log(logWriter, http.HandlerFunc(han.NotFoundHandler))
	router.MethodNotAllowedHandler = log(logWriter, http.HandlerFunc(han.MethodNotAllowedHandler))

	return router
}
