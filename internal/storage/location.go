// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Schemes understood by ParseLocation.
const (
	SchemeFile = "file"
	SchemeS3   = "s3"
)

// ErrUnsupportedScheme is returned for locations no store can serve.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Location identifies a dataset object. For s3 it is a bucket and key, for
// file a local path.
type Location struct {
	Scheme string
	Bucket string
	Key    string
	Path   string
}

// ParseLocation accepts s3://bucket/key, file:///path or a plain path. S3 keys
// are opaque and kept byte for byte, so '#', '?' and '%' are not interpreted.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("empty location")
	}
	if !strings.Contains(s, "://") {
		return Location{Scheme: SchemeFile, Path: filepath.Clean(s)}, nil
	}

	scheme, rest, _ := strings.Cut(s, "://")
	if strings.EqualFold(scheme, SchemeS3) {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("location %q: want s3://bucket/key", s)
		}
		return Location{Scheme: SchemeS3, Bucket: bucket, Key: key}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("location %q: %w", s, err)
	}
	if !strings.EqualFold(u.Scheme, SchemeFile) {
		return Location{}, fmt.Errorf("%w %q in %q", ErrUnsupportedScheme, u.Scheme, s)
	}
	if u.Path == "" {
		return Location{}, fmt.Errorf("location %q: empty path", s)
	}
	return Location{Scheme: SchemeFile, Path: filepath.Clean(u.Path)}, nil
}

// String renders the location in the form ParseLocation accepts.
func (l Location) String() string {
	if l.Scheme == SchemeS3 {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}
