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
	"strings"

	"golang.org/x/crypto/ssh"

	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
)

const (
	// SSHKeysMetadataKey is the common instance metadata item holding
	// the project wide key.
	SSHKeysMetadataKey = "sshKeys"

	// RSAKeyProtocol is the only key type we accept.
	RSAKeyProtocol = "ssh-rsa"
	// RSAKeyPrefix is the base64 encoding of the length prefixed
	// "ssh-rsa" algorithm name every RSA public key blob starts with.
	RSAKeyPrefix = "AAAAB3NzaC1yc2E"
)

// ParseSSHKey parses a "ssh-rsa <blob> <comment>" public key. The comment
// becomes the key owner.
func ParseSSHKey(key string) (params.SSHKey, error) {
	fields := strings.Fields(key)
	if len(fields) != 3 {
		return params.SSHKey{}, adapterErrors.NewInvalidKeyFormatError(
			"expected 3 space separated fields (protocol, key, user), got %d", len(fields))
	}

	protocol, blob, user := fields[0], fields[1], fields[2]
	if protocol != RSAKeyProtocol {
		return params.SSHKey{}, adapterErrors.NewInvalidKeyFormatError(
			"unsupported key protocol %q, only %s keys are accepted", protocol, RSAKeyProtocol)
	}

	if !strings.HasPrefix(blob, RSAKeyPrefix) {
		return params.SSHKey{}, adapterErrors.NewInvalidKeyFormatError("key data is not an RSA public key")
	}

	return params.SSHKey{
		Protocol:  protocol,
		PublicKey: blob,
		User:      user,
	}, nil
}

// IsValidKey reports whether key passes ParseSSHKey.
func IsValidKey(key string) bool {
	_, err := ParseSSHKey(key)
	return err == nil
}

// ParseMetadataValue parses the value of the sshKeys metadata item, which
// has the form "<user>:<protocol> <blob> <user>".
func ParseMetadataValue(value string) (params.SSHKey, error) {
	value = strings.TrimSpace(value)
	// Only the first line is ours. Keys added by other tools are ignored.
	if idx := strings.IndexAny(value, "\r\n"); idx >= 0 {
		value = value[:idx]
	}

	owner, key, found := strings.Cut(value, ":")
	if !found {
		return params.SSHKey{}, adapterErrors.NewInvalidKeyFormatError("missing user prefix")
	}

	parsed, err := ParseSSHKey(key)
	if err != nil {
		return params.SSHKey{}, err
	}
	parsed.User = owner
	return parsed, nil
}

// Fingerprint returns the SHA256 fingerprint of the key, or an empty
// string if the blob does not decode to a valid public key.
func Fingerprint(key params.SSHKey) string {
	pubKey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key.String()))
	if err != nil {
		return ""
	}
	return ssh.FingerprintSHA256(pubKey)
}
