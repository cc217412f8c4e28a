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
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nanobox-io/gce-adapter/apiserver/controllers"
	"github.com/nanobox-io/gce-adapter/auth"
	"github.com/nanobox-io/gce-adapter/catalog"
	"github.com/nanobox-io/gce-adapter/database/file"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	adapterTesting "github.com/nanobox-io/gce-adapter/internal/testing"
	"github.com/nanobox-io/gce-adapter/params"
)

const testPriceList = `{"gcp_price_list": {"CP-COMPUTEENGINE-VMIMAGE-F1-MICRO": {"us": 0.0076, "europe": 0.0086}}}`

type RouterTestSuite struct {
	suite.Suite

	provider *adapterTesting.FakeProvider
	header   string
	router   http.Handler
}

func (s *RouterTestSuite) SetupTest() {
	cfg := adapterTesting.GetTestFileDBConfig(s.T())
	store, err := file.NewFileStore(context.Background(), cfg.File)
	s.Require().NoError(err)

	priceList := filepath.Join(filepath.Dir(cfg.File.Path), "pricelist.json")
	s.Require().NoError(os.WriteFile(priceList, []byte(testPriceList), 0o644))

	s.provider = adapterTesting.NewFakeProvider("router-test")
	s.provider.MachineTypeList["zones/us-central1-a"] = []params.MachineType{
		{Name: "f1-micro", Description: "1 vCPU (shared physical core) and 0.6 GB RAM", Zone: "us-central1-a", GuestCPUs: 1, MemoryMB: 614, MaxDiskGB: 3072},
	}
	s.header = string(adapterTesting.ServiceAccountJSON(s.T(), "router-test"))

	controller, err := controllers.NewAPIController(catalog.NewSynchronizer(store, priceList))
	s.Require().NoError(err)
	authMiddleware, err := auth.NewServiceAccountMiddleware(s.provider.Factory())
	s.Require().NoError(err)

	s.router = NewAPIRouter(controller, io.Discard, authMiddleware, nil)
}

func (s *RouterTestSuite) do(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set(auth.ServiceAccountHeader, s.header)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) TestHome() {
	rec := s.do(http.MethodGet, "/", "", false)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"description": "A provider for deploying Nanobox apps to Google Cloud."}`, rec.Body.String())
	s.Require().NotEmpty(rec.Header().Get(auth.RequestIDHeader))
}

func (s *RouterTestSuite) TestMeta() {
	rec := s.do(http.MethodGet, "/meta", "", false)
	s.Require().Equal(http.StatusOK, rec.Code)

	var meta params.Meta
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &meta))
	s.Require().Equal("gce", meta.ID)
	s.Require().Equal("us-central1-a", meta.DefaultRegion)
	s.Require().Equal("f1-micro", meta.DefaultSize)
	s.Require().True(meta.CanReboot)
	s.Require().True(meta.CanRename)
	s.Require().Equal([]params.CredentialField{{Key: "service-account", Label: "service account"}}, meta.CredentialFields)
}

func (s *RouterTestSuite) TestMethodNotAllowed() {
	rec := s.do(http.MethodDelete, "/meta", "", false)
	s.Require().Equal(http.StatusMethodNotAllowed, rec.Code)
	s.Require().JSONEq(`{"status": 405, "errors": "Not Allowed: DELETE"}`, rec.Body.String())
}

func (s *RouterTestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/does/not/exist", "", false)
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterTestSuite) TestProtectedRoutesRequireHeader() {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/verify"},
		{http.MethodGet, "/catalog/update"},
		{http.MethodGet, "/admin/catalog"},
		{http.MethodPost, "/servers"},
		{http.MethodGet, "/servers/web"},
		{http.MethodDelete, "/servers/web"},
		{http.MethodPatch, "/servers/web/reboot"},
		{http.MethodPost, "/keys"},
		{http.MethodGet, "/keys/nanobox"},
		{http.MethodDelete, "/keys/nanobox"},
	}

	for _, route := range routes {
		s.Run(route.method+" "+route.path, func() {
			rec := s.do(route.method, route.path, "", false)
			s.Require().Equal(http.StatusBadRequest, rec.Code)
			s.Require().JSONEq(`{"status":400,"errors":"Bad request: Auth-Service-Account header required"}`, rec.Body.String())
		})
	}
	s.Require().Empty(s.provider.Calls)
}

func (s *RouterTestSuite) TestVerify() {
	rec := s.do(http.MethodPost, "/verify", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Empty(rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/verify", nil)
	req.Header.Set(auth.ServiceAccountHeader, `{"type": "service_account"}`)
	bad := httptest.NewRecorder()
	s.router.ServeHTTP(bad, req)
	s.Require().Equal(http.StatusBadRequest, bad.Code)
}

func (s *RouterTestSuite) TestCatalog() {
	rec := s.do(http.MethodGet, "/catalog", "", false)
	s.Require().Equal(http.StatusServiceUnavailable, rec.Code)

	rec = s.do(http.MethodGet, "/catalog/update", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	updated := rec.Body.String()

	rec = s.do(http.MethodGet, "/catalog", "", false)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(updated, rec.Body.String())

	var listed params.Catalog
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &listed))
	s.Require().Len(listed, 1)
	s.Require().Equal("us-central1-a", listed[0].ID)
	s.Require().Equal(int64(5), listed[0].Plans[0].Specs[0].DollarsPerMo)
}

func (s *RouterTestSuite) TestCatalogUpdateWithMissingPrice() {
	s.provider.MachineTypeList["zones/us-central1-a"] = append(
		s.provider.MachineTypeList["zones/us-central1-a"],
		params.MachineType{Name: "n1-standard-1", Zone: "us-central1-a"},
	)

	rec := s.do(http.MethodGet, "/admin/catalog", "", true)
	s.Require().Equal(http.StatusInternalServerError, rec.Code)
	s.Require().Contains(rec.Body.String(), "Internal Server Error: no price found for machine type n1-standard-1")
}

func (s *RouterTestSuite) TestServerLifecycle() {
	rec := s.do(http.MethodPost, "/servers", `{"region": "us-central1-a", "size": "f1-micro", "name": "web.example.com"}`, true)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Require().JSONEq(`{"id": "web.example.com"}`, rec.Body.String())
	s.Require().Contains(s.provider.Instances, "web-dot-example-dot-com")

	rec = s.do(http.MethodGet, "/servers/web.example.com", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"id": "web.example.com", "status": "PROVISIONING", "name": "web.example.com", "internal_ip": "", "external_ip": ""}`, rec.Body.String())

	instance := s.provider.Instances["web-dot-example-dot-com"]
	instance.Status = params.InstanceRunning
	instance.InternalIP = "10.128.0.2"
	instance.ExternalIP = "35.1.2.3"
	s.provider.Instances["web-dot-example-dot-com"] = instance

	rec = s.do(http.MethodGet, "/servers/web.example.com/", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"id": "web.example.com", "status": "active", "name": "web.example.com", "internal_ip": "10.128.0.2", "external_ip": "35.1.2.3"}`, rec.Body.String())

	rec = s.do(http.MethodPatch, "/servers/web.example.com/reboot", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPatch, "/servers/web.example.com/rename", `{"name": "api.example.com"}`, true)
	s.Require().Equal(http.StatusNotImplemented, rec.Code)
	s.Require().Contains(rec.Body.String(), "Not Implemented: ")

	rec = s.do(http.MethodDelete, "/servers/web.example.com", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Empty(rec.Body.String())

	rec = s.do(http.MethodDelete, "/servers/web.example.com", "", true)
	s.Require().Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/servers/web.example.com", "", true)
	s.Require().Equal(http.StatusNotFound, rec.Code)
	s.Require().JSONEq("{\"status\": 404, \"errors\": \"Not found: Server with id: `web-dot-example-dot-com` not found\"}", rec.Body.String())

	rec = s.do(http.MethodPost, "/servers/missing/reboot", "", true)
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterTestSuite) TestCreateServerValidation() {
	rec := s.do(http.MethodPost, "/servers", `{"region": "us-central1-a", "name": "web"}`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().JSONEq(`{"status": 400, "errors": "Bad request: missing size"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/servers", `not json`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/servers", `{"region": "us-central1-a", "size": "f1-micro", "name": "web-dot-example"}`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Contains(rec.Body.String(), "names must not contain")
	s.Require().Empty(s.provider.Instances)
}

func (s *RouterTestSuite) TestCreateServerProviderFailure() {
	s.provider.Err = adapterErrors.NewProviderError("quota exceeded")

	rec := s.do(http.MethodPost, "/servers", `{"region": "us-central1-a", "size": "f1-micro", "name": "web"}`, true)
	s.Require().Equal(http.StatusInternalServerError, rec.Code)
	s.Require().JSONEq(`{"status": 500, "errors": "Internal Server Error: quota exceeded"}`, rec.Body.String())
}

func (s *RouterTestSuite) TestKeys() {
	key := adapterTesting.RSAAuthorizedKey(s.T(), "nanobox")
	body, err := json.Marshal(params.CreateKeyParams{Key: key})
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/keys", string(body), true)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Require().JSONEq(`{"id": "nanobox"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/keys/nanobox", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	var details params.KeyDetails
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &details))
	s.Require().Equal("nanobox", details.ID)
	s.Require().Equal("nanobox", details.Name)
	s.Require().Equal(strings.Fields(key)[1], details.PublicKey)

	rec = s.do(http.MethodGet, "/keys/someone-else", "", true)
	s.Require().Equal(http.StatusNotFound, rec.Code)

	// Deleting clears the slot whatever the id.
	rec = s.do(http.MethodDelete, "/keys/someone-else", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Empty(rec.Body.String())

	rec = s.do(http.MethodGet, "/keys/nanobox", "", true)
	s.Require().Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/keys/nanobox", "", true)
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestInvalidKey() {
	rec := s.do(http.MethodPost, "/keys", `{"key": "ssh-dsa AAAAB3 user"}`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Contains(rec.Body.String(), "Bad request: Invalid Key Format. ")

	rec = s.do(http.MethodPost, "/keys", `{}`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().JSONEq(`{"status": 400, "errors": "Bad request: missing key"}`, rec.Body.String())
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
