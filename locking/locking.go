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

package locking

import (
	"context"
	"log/slog"
	"sync"
)

// Locker serializes work on a key. The identifier of the current holder
// is kept for debugging.
type Locker interface {
	TryLock(key, identifier string) bool
	LockWithContext(ctx context.Context, key, identifier string) error
	Unlock(key string)
	LockedBy(key string) (string, bool)
}

// NewLocalLocker returns an in process Locker.
func NewLocalLocker() Locker {
	return &keyMutex{}
}

type lockWithIdent struct {
	sem chan struct{}

	mux   sync.Mutex
	ident string
}

func (l *lockWithIdent) setIdent(ident string) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.ident = ident
}

type keyMutex struct {
	muxes sync.Map
}

var _ Locker = &keyMutex{}

func (k *keyMutex) get(key string) *lockWithIdent {
	mux, _ := k.muxes.LoadOrStore(key, &lockWithIdent{
		sem: make(chan struct{}, 1),
	})
	return mux.(*lockWithIdent)
}

func (k *keyMutex) TryLock(key, identifier string) bool {
	keyMux := k.get(key)
	select {
	case keyMux.sem <- struct{}{}:
		keyMux.setIdent(identifier)
		return true
	default:
		return false
	}
}

func (k *keyMutex) LockWithContext(ctx context.Context, key, identifier string) error {
	keyMux := k.get(key)
	slog.DebugContext(ctx, "attempting to lock", "key", key, "identifier", identifier)
	select {
	case keyMux.sem <- struct{}{}:
		keyMux.setIdent(identifier)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock releases key. Unlocking a key that is not held is a no-op.
func (k *keyMutex) Unlock(key string) {
	mux, ok := k.muxes.Load(key)
	if !ok {
		return
	}
	keyMux := mux.(*lockWithIdent)
	keyMux.setIdent("")
	select {
	case <-keyMux.sem:
	default:
	}
}

func (k *keyMutex) LockedBy(key string) (string, bool) {
	mux, ok := k.muxes.Load(key)
	if !ok {
		return "", false
	}
	keyMux := mux.(*lockWithIdent)
	keyMux.mux.Lock()
	defer keyMux.mux.Unlock()
	if keyMux.ident == "" {
		return "", false
	}
	return keyMux.ident, true
}
