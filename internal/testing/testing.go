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

package testing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/nanobox-io/gce-adapter/config"
	"github.com/nanobox-io/gce-adapter/params"
)

// ServiceAccountJSON returns a service account key document with a freshly
// generated RSA key. The key is valid, but unknown to google.
func ServiceAccountJSON(t *testing.T, projectID string) []byte {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	doc := map[string]string{
		"type":           params.ServiceAccountType,
		"project_id":     projectID,
		"private_key_id": "0123456789abcdef",
		"private_key":    string(keyPEM),
		"client_email":   fmt.Sprintf("nanobox@%s.iam.gserviceaccount.com", projectID),
		"client_id":      "100000000000000000001",
		"auth_uri":       "https://accounts.google.com/o/oauth2/auth",
		"token_uri":      "https://oauth2.googleapis.com/token",
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// ServiceAccount returns a parsed service account for projectID.
func ServiceAccount(t *testing.T, projectID string) params.ServiceAccount {
	t.Helper()

	sa, err := params.ParseServiceAccount(ServiceAccountJSON(t, projectID))
	require.NoError(t, err)
	return sa
}

// RSAAuthorizedKey returns a real "ssh-rsa <blob> <comment>" public key.
func RSAAuthorizedKey(t *testing.T, comment string) string {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pubKey))) + " " + comment
}

func tempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "gce-adapter-test")
	if err != nil {
		t.Fatalf("failed to create temporary directory: %s", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func GetTestSqliteDBConfig(t *testing.T) config.Database {
	dir := tempDir(t)

	return config.Database{
		Debug:     false,
		DbBackend: config.SQLiteBackend,
		SQLite: config.SQLite{
			DBFile: filepath.Join(dir, "catalog.db"),
		},
	}
}

func GetTestFileDBConfig(t *testing.T) config.Database {
	dir := tempDir(t)

	return config.Database{
		DbBackend: config.FileBackend,
		File: config.File{
			Path: filepath.Join(dir, "catalog.json"),
		},
	}
}
