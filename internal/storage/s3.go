// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dustin/go-humanize"

	"github.com/staranto/tabfeat/internal/cacheutil"
)

// S3API is the subset of the S3 client used for reads.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Uploader is the subset of manager.Uploader used for writes.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

var (
	_ S3API    = (*s3.Client)(nil)
	_ Uploader = (*manager.Uploader)(nil)
)

// S3Store serves s3 locations. Reads go through the local cache when it is
// enabled, keyed by object URI and ETag.
type S3Store struct {
	api      S3API
	uploader Uploader
}

// NewS3Store returns a store over client using a multipart-capable uploader.
func NewS3Store(client *s3.Client) *S3Store {
	return NewS3StoreWith(client, manager.NewUploader(client))
}

// NewS3StoreWith returns a store over the given read and upload clients.
func NewS3StoreWith(api S3API, uploader Uploader) *S3Store {
	return &S3Store{api: api, uploader: uploader}
}

var cacheDirs = []string{"s3"}

func (s *S3Store) Get(ctx context.Context, loc Location) ([]byte, error) {
	var cacheKey string
	if cacheutil.Enabled() {
		head, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: awsv2.String(loc.Bucket),
			Key:    awsv2.String(loc.Key),
		})
		if err != nil {
			return nil, s3Error(loc, err)
		}
		if etag := awsv2.ToString(head.ETag); etag != "" {
			cacheKey = cacheutil.ObjectKey(loc.String(), etag)
			if e, ok := cacheutil.Read(cacheDirs, cacheKey); ok {
				log.Debugf("cache hit %s (%s)", loc, humanize.Bytes(uint64(len(e.Data))))
				return e.Data, nil
			}
		}
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awsv2.String(loc.Bucket),
		Key:    awsv2.String(loc.Key),
	})
	if err != nil {
		return nil, s3Error(loc, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	log.Debugf("downloaded %s (%s)", loc, humanize.Bytes(uint64(len(b))))

	if cacheKey != "" {
		if err := cacheutil.Write(cacheDirs, cacheKey, b); err != nil {
			log.WithError(err).Warn("failed to cache object")
		}
	}
	return b, nil
}

func (s *S3Store) Put(ctx context.Context, loc Location, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      awsv2.String(loc.Bucket),
		Key:         awsv2.String(loc.Key),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", loc, err)
	}
	log.Debugf("uploaded %s (%s)", loc, humanize.Bytes(uint64(len(data))))
	return nil
}

func s3Error(loc Location, err error) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("%s: %w", loc, fs.ErrNotExist)
	}
	return fmt.Errorf("%s: %w", loc, err)
}
