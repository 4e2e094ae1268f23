// Package gcs uploads extraction run artifacts to Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Uploader copies a local run directory under a gs://bucket/prefix target.
type Uploader struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewUploader creates an uploader for a "gs://bucket/prefix" target URI.
// An optional service account key file overrides ambient credentials.
func NewUploader(ctx context.Context, target, keyFile string, logger *zap.Logger) (*Uploader, error) {
	bucket, prefix, err := parseGCSPath(target)
	if err != nil {
		return nil, fmt.Errorf("parse upload target %q: %w", target, err)
	}

	var opts []option.ClientOption
	if keyFile != "" {
		opts = append(opts, option.WithCredentialsFile(keyFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	return &Uploader{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

// UploadDir uploads every file in dir (non-recursive; runs produce a flat
// directory) as gs://bucket/prefix/<runID>/<name>.
func (u *Uploader) UploadDir(ctx context.Context, dir, runID string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading run directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		local := filepath.Join(dir, entry.Name())
		key := joinKey(u.prefix, runID, entry.Name())
		if err := u.uploadFile(ctx, local, key); err != nil {
			return err
		}
		u.logger.Info("uploaded artifact",
			zap.String("file", entry.Name()),
			zap.String("object", fmt.Sprintf("gs://%s/%s", u.bucket, key)))
	}
	return nil
}

func (u *Uploader) uploadFile(ctx context.Context, local, key string) error {
	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("opening %s: %w", local, err)
	}
	defer f.Close()

	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("uploading %s to gs://%s/%s: %w", local, u.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing gs://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}

func joinKey(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, strings.Trim(p, "/"))
		}
	}
	return strings.Join(kept, "/")
}

// parseGCSPath extracts bucket and optional prefix from a "gs://bucket/prefix" URI.
func parseGCSPath(path string) (bucket, prefix string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("parse GCS path %q: %w", path, err)
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("expected gs:// scheme, got %q in %q", u.Scheme, path)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("empty bucket in GCS path %q", path)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}
