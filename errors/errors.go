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

import "fmt"

var (
	// ErrNotFound is returned if an instance or a key does not exist
	// on the provider side.
	ErrNotFound = NewNotFoundError("not found")
	// ErrBadRequest is returned is a malformed request is sent
	ErrBadRequest = NewBadRequestError("invalid request")
	// ErrAuthHeaderRequired is returned when a protected route is called
	// without the service account header.
	ErrAuthHeaderRequired = NewAuthError("Auth-Service-Account header required")
	// ErrInvalidServiceAccount is returned when the service account header
	// does not hold a usable credential bundle.
	ErrInvalidServiceAccount = NewAuthError("Invalid Service Account JSON")
	// ErrCatalogUnavailable is returned when the catalog was never built.
	ErrCatalogUnavailable = NewCatalogUnavailableError("catalog has not been built yet")
)

type baseError struct {
	msg string
}

func (b *baseError) Error() string {
	return b.msg
}

// NewNotFoundError returns a new NotFoundError
func NewNotFoundError(msg string, a ...interface{}) error {
	return &NotFoundError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// NotFoundError is returned when a resource is not found
type NotFoundError struct {
	baseError
}

// Is reports whether target is also a NotFoundError, so any instance
// matches the package sentinel.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// NewBadRequestError returns a new BadRequestError
func NewBadRequestError(msg string, a ...interface{}) error {
	return &BadRequestError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// BadRequestError is returned when a malformed request is received
type BadRequestError struct {
	baseError
}

// Is reports whether target is also a BadRequestError, so any instance
// matches the package sentinel.
func (e *BadRequestError) Is(target error) bool {
	_, ok := target.(*BadRequestError)
	return ok
}

// NewAuthError returns a new AuthError
func NewAuthError(msg string, a ...interface{}) error {
	return &AuthError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// AuthError is returned when the credential bundle is missing, malformed
// or rejected by the provider.
type AuthError struct {
	baseError
}

// Is reports whether target is also a AuthError, so any instance
// matches the package sentinel.
func (e *AuthError) Is(target error) bool {
	_, ok := target.(*AuthError)
	return ok
}

// NewInvalidKeyFormatError returns a new InvalidKeyFormatError
func NewInvalidKeyFormatError(msg string, a ...interface{}) error {
	return &InvalidKeyFormatError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// InvalidKeyFormatError is returned when an SSH public key is not in the
// "ssh-rsa <blob> <comment>" format.
type InvalidKeyFormatError struct {
	baseError
}

// NewNotImplementedError returns a new NotImplementedError
func NewNotImplementedError(msg string, a ...interface{}) error {
	return &NotImplementedError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// NotImplementedError is returned by operations advertised in the
// capability descriptor that this adapter cannot perform.
type NotImplementedError struct {
	baseError
}

// NewCatalogUnavailableError returns a new CatalogUnavailableError
func NewCatalogUnavailableError(msg string, a ...interface{}) error {
	return &CatalogUnavailableError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// CatalogUnavailableError is returned when no catalog has been stored.
type CatalogUnavailableError struct {
	baseError
}

// Is reports whether target is also a CatalogUnavailableError, so any instance
// matches the package sentinel.
func (e *CatalogUnavailableError) Is(target error) bool {
	_, ok := target.(*CatalogUnavailableError)
	return ok
}

// NewPriceNotFoundError returns a new PriceNotFoundError
func NewPriceNotFoundError(msg string, a ...interface{}) error {
	return &PriceNotFoundError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// PriceNotFoundError is returned when a machine type has no matching entry
// in the price table.
type PriceNotFoundError struct {
	baseError
}

// NewProviderError returns a new ProviderError
func NewProviderError(msg string, a ...interface{}) error {
	return &ProviderError{
		baseError{
			msg: fmt.Sprintf(msg, a...),
		},
	}
}

// ProviderError is returned when a call to the compute API fails for
// reasons the caller cannot fix.
type ProviderError struct {
	baseError
}
