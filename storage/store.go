// Package storage keeps user-uploaded blobs (avatars) behind a small
// key/value interface with local-disk and S3 implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// maxBlobSize caps what StoreFromURL will read from a remote server.
const maxBlobSize = 10 << 20

type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
}

// StoreFromURL downloads src and writes it under key.
func StoreFromURL(ctx context.Context, client *http.Client, store Store, src, key string) error {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return errors.Wrap(err, "build avatar request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch avatar")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch avatar: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize))
	if err != nil {
		return errors.Wrap(err, "read avatar")
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return store.Put(ctx, key, data, contentType)
}
