// Package storage is the object-store adapter used for todo photos. The
// service only needs three capabilities: put bytes at a key, delete a key,
// and mint a time-limited read URL for a key.
package storage

import (
	"context"
	"time"
)

// DefaultURLTTL is the lifetime of signed read URLs.
const DefaultURLTTL = time.Hour

// ObjectStore is the capability interface consumed by the photo manager.
//
// When IsConfigured is false every other method returns an error wrapping
// common.ErrNotConfigured without touching the network. Delete treats a
// missing key as success.
type ObjectStore interface {
	IsConfigured() bool
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// New returns an S3-backed store for o, or Unconfigured when no bucket is
// set.
func New(ctx context.Context, o S3Options) (ObjectStore, error) {
	if o.Bucket == "" {
		return Unconfigured{}, nil
	}
	return NewS3Store(ctx, o)
}
