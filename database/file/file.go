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
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/nanobox-io/gce-adapter/config"
	"github.com/nanobox-io/gce-adapter/database/common"
	adapterErrors "github.com/nanobox-io/gce-adapter/errors"
	"github.com/nanobox-io/gce-adapter/params"
)

var _ common.CatalogStore = &fileStore{}

// NewFileStore returns a catalog store that keeps the catalog as a plain
// JSON array on disk. The modification time of the file is the time the
// catalog was last replaced.
func NewFileStore(_ context.Context, cfg config.File) (common.CatalogStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating file store config")
	}
	return &fileStore{
		path: cfg.Path,
	}, nil
}

type fileStore struct {
	mux  sync.RWMutex
	path string
}

func (f *fileStore) Load(_ context.Context) (params.CatalogInfo, error) {
	f.mux.RLock()
	defer f.mux.RUnlock()

	fd, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return params.CatalogInfo{}, adapterErrors.ErrCatalogUnavailable
		}
		return params.CatalogInfo{}, errors.Wrap(err, "opening catalog")
	}
	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return params.CatalogInfo{}, errors.Wrap(err, "fetching catalog info")
	}

	var catalog params.Catalog
	if err := json.NewDecoder(fd).Decode(&catalog); err != nil {
		return params.CatalogInfo{}, errors.Wrap(err, "decoding catalog")
	}
	if catalog == nil {
		catalog = params.Catalog{}
	}

	return params.CatalogInfo{
		Catalog:   catalog,
		UpdatedAt: stat.ModTime().UTC(),
	}, nil
}

func (f *fileStore) Replace(ctx context.Context, catalog params.Catalog) (params.CatalogInfo, error) {
	if catalog == nil {
		catalog = params.Catalog{}
	}
	data, err := json.Marshal(catalog)
	if err != nil {
		return params.CatalogInfo{}, errors.Wrap(err, "encoding catalog")
	}

	f.mux.Lock()
	defer f.mux.Unlock()

	if err := writeFileAtomic(f.path, data); err != nil {
		return params.CatalogInfo{}, errors.Wrap(err, "writing catalog")
	}

	stat, err := os.Stat(f.path)
	if err != nil {
		return params.CatalogInfo{}, errors.Wrap(err, "fetching catalog info")
	}
	return params.CatalogInfo{
		Catalog:   catalog,
		UpdatedAt: stat.ModTime().UTC(),
	}, nil
}

func (f *fileStore) Close() error {
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path once it is flushed to disk.
func writeFileAtomic(path string, data []byte) (err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpFile.Name())
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		return errors.Wrap(err, "writing temporary file")
	}
	if err = tmpFile.Sync(); err != nil {
		return errors.Wrap(err, "flushing temporary file")
	}
	if err = tmpFile.Close(); err != nil {
		return errors.Wrap(err, "closing temporary file")
	}
	if err = os.Chmod(tmpFile.Name(), 0o644); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	if err = os.Rename(tmpFile.Name(), path); err != nil {
		return errors.Wrap(err, "replacing catalog file")
	}
	return nil
}
