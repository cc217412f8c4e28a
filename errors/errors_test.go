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

package errors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	err := errors.Wrap(NewNotFoundError("instance %s not found", "web"), "fetching server")
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrBadRequest)
	require.Equal(t, "fetching server: instance web not found", err.Error())

	require.ErrorIs(t, NewAuthError("missing project_id"), ErrAuthHeaderRequired)
	require.ErrorIs(t, NewCatalogUnavailableError("empty"), ErrCatalogUnavailable)
	require.NotErrorIs(t, NewProviderError("boom"), ErrNotFound)
}

func TestErrorTypes(t *testing.T) {
	var keyErr *InvalidKeyFormatError
	require.ErrorAs(t, errors.Wrap(NewInvalidKeyFormatError("bad"), "adding key"), &keyErr)
	require.Equal(t, "bad", keyErr.Error())

	var priceErr *PriceNotFoundError
	require.ErrorAs(t, NewPriceNotFoundError("no price for %s in %s", "f1-micro", "us-central1-a"), &priceErr)
	require.Equal(t, "no price for f1-micro in us-central1-a", priceErr.Error())
}
