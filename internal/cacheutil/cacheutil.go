// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/blake2b"
)

// DefaultMaxBytes bounds the size of a single cached object unless
// TABFEAT_CACHE_MAX overrides it.
const DefaultMaxBytes = 1 << 30

// Entry is a cached object on disk. Key is the clear-text key, EncodedKey the
// file name it is stored under.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// ObjectKey is the cache key of one version of a remote object. A new ETag
// means a new key, so a changed object is never served stale.
func ObjectKey(uri, etag string) string {
	return uri + "#" + etag
}

// Dir resolves the base cache directory: TABFEAT_CACHE_DIR when set, else
// os.UserCacheDir()/tabfeat. Returns ("", false) when neither resolves.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("TABFEAT_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "tabfeat"), true
	}
	return "", false
}

// Enabled reports whether TABFEAT_CACHE turns caching on ("1"/"true").
func Enabled() bool {
	enabled, _ := os.LookupEnv("TABFEAT_CACHE")
	return enabled == "1" || enabled == "true"
}

// MaxBytes returns the largest object Write will store. TABFEAT_CACHE_MAX
// takes a human size such as "256MB".
func MaxBytes() uint64 {
	s := os.Getenv("TABFEAT_CACHE_MAX")
	if s == "" {
		return DefaultMaxBytes
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		log.Warnf("ignoring TABFEAT_CACHE_MAX=%q: %v", s, err)
		return DefaultMaxBytes
	}
	return n
}

// EnsureBaseDir creates the base cache directory when caching is enabled.
// It returns the path, whether it is usable, and any creation error.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// EntryPath returns where the entry for clearKey lives beneath subdirs and
// whether a file is there now.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes entries not modified within the last hours. hours <= 0
// disables it.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache purge disabled")
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	var freed uint64
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil //nolint:nilerr
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		freed += uint64(info.Size())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	if freed > 0 {
		log.Debugf("cache purge freed %s", humanize.Bytes(freed))
	}
	return nil
}

// Read returns the cached bytes for clearKey exactly as written.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
	}, true
}

// Write stores data for clearKey beneath subdirs. Objects larger than
// MaxBytes are skipped. The entry is renamed into place so a concurrent Read
// never sees a partial object.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	if limit := MaxBytes(); uint64(len(data)) > limit {
		log.Debugf("not caching %s: %s exceeds %s", clearKey,
			humanize.Bytes(uint64(len(data))), humanize.Bytes(limit))
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, encodeKey(clearKey))); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// encodeKey returns the hex BLAKE2b-256 of k.
func encodeKey(k string) string {
	sum := blake2b.Sum256([]byte(k))
	return hex.EncodeToString(sum[:])
}
