// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// Store reads and writes whole objects.
type Store interface {
	Get(ctx context.Context, loc Location) ([]byte, error)
	Put(ctx context.Context, loc Location, data []byte) error
}

// Mux dispatches to a Store by location scheme.
type Mux struct {
	stores map[string]Store
}

// NewMux returns a Mux serving file locations from a FileStore.
func NewMux() *Mux {
	return &Mux{stores: map[string]Store{SchemeFile: FileStore{}}}
}

// Handle registers store for scheme, replacing any previous one.
func (m *Mux) Handle(scheme string, store Store) {
	m.stores[scheme] = store
}

func (m *Mux) store(loc Location) (Store, error) {
	s, ok := m.stores[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, loc.Scheme)
	}
	return s, nil
}

func (m *Mux) Get(ctx context.Context, loc Location) ([]byte, error) {
	s, err := m.store(loc)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, loc)
}

func (m *Mux) Put(ctx context.Context, loc Location, data []byte) error {
	s, err := m.store(loc)
	if err != nil {
		return err
	}
	return s.Put(ctx, loc, data)
}

// FileStore serves local files. Put writes a temporary sibling and renames
// it, so readers never observe a partial file.
type FileStore struct{}

func (FileStore) Get(_ context.Context, loc Location) ([]byte, error) {
	b, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, err
	}
	log.Debugf("read %s (%s)", loc.Path, humanize.Bytes(uint64(len(b))))
	return b, nil
}

func (FileStore) Put(_ context.Context, loc Location, data []byte) error {
	dir := filepath.Dir(loc.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(loc.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:mnd
		return err
	}
	if err := os.Rename(tmp.Name(), loc.Path); err != nil {
		return err
	}
	log.Debugf("wrote %s (%s)", loc.Path, humanize.Bytes(uint64(len(data))))
	return nil
}

var (
	_ Store = (*Mux)(nil)
	_ Store = FileStore{}
	_ Store = (*S3Store)(nil)
)
