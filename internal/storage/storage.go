package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// Service stores listing photos in remote object storage.
type Service interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	// DeletePrefix removes every object under prefix and reports how many were removed.
	DeletePrefix(ctx context.Context, bucket, prefix string) (int, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// Location conveys the bucket and key prefix photos live under.
type Location struct {
	Bucket    string
	KeyPrefix string
}

// Enabled reports whether a bucket is configured.
func (l Location) Enabled() bool {
	return strings.TrimSpace(l.Bucket) != ""
}

// ListingPrefix is the key prefix holding every photo of a listing.
func (l Location) ListingPrefix(listingID string) string {
	return path.Join(strings.Trim(l.KeyPrefix, "/"), "listings", listingID) + "/"
}

// PhotoKey builds the object key for a new photo of a listing.
func (l Location) PhotoKey(listingID, name, ext string) string {
	return l.ListingPrefix(listingID) + name + ext
}
