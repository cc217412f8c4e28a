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
package common

import (
	"context"

	"github.com/nanobox-io/gce-adapter/params"
)

// CatalogStore holds the last catalog built by a refresh. Readers always
// see either the previous or the new catalog, never a partial one.
type CatalogStore interface {
	// Load returns the stored catalog, or ErrCatalogUnavailable if no
	// catalog was ever stored.
	Load(ctx context.Context) (params.CatalogInfo, error)
	// Replace overwrites the stored catalog.
	Replace(ctx context.Context, catalog params.Catalog) (params.CatalogInfo, error)

	Close() error
}
