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

package params

import (
	"crypto/x509"
	"encoding/json"
	"encoding/pem"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
)

const ServiceAccountType = "service_account"

// ServiceAccount is a GCE service account JSON key. It is sent by the
// broker on every request and never stored.
type ServiceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`

	// Raw is the document as it was received. The oauth2 library
	// builds its token source from it.
	Raw []byte `json:"-"`
}

// ParseServiceAccount decodes and validates a service account JSON key.
func ParseServiceAccount(data []byte) (ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return ServiceAccount{}, adapterErrors.ErrInvalidServiceAccount
	}
	sa.Raw = data

	if err := sa.Validate(); err != nil {
		return ServiceAccount{}, err
	}
	return sa, nil
}

func (s ServiceAccount) Validate() error {
	if s.Type != "" && s.Type != ServiceAccountType {
		return adapterErrors.NewAuthError("invalid credential type %q", s.Type)
	}

	if s.ProjectID == "" {
		return adapterErrors.NewAuthError("missing project_id")
	}

	if s.ClientEmail == "" {
		return adapterErrors.NewAuthError("missing client_email")
	}

	if s.PrivateKey == "" {
		return adapterErrors.NewAuthError("missing private_key")
	}

	block, _ := pem.Decode([]byte(s.PrivateKey))
	if block == nil {
		return adapterErrors.NewAuthError("private_key is not PEM encoded")
	}

	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err != nil {
		if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err != nil {
			return adapterErrors.NewAuthError("invalid private_key")
		}
	}
	return nil
}
