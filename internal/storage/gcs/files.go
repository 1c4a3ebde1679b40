// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gcs stores uploaded media in a Google Cloud Storage bucket, as
// objects named "<prefix>/<videos|images>/<name>". URL returns a V4 signed
// GET URL.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// SignFunc signs the bytes of a signed URL. It is used when the runtime
// credentials cannot sign locally, e.g. on Cloud Run with a metadata token.
type SignFunc func(ctx context.Context, payload []byte) ([]byte, error)

type Files struct {
	StorageClient *storage.Client // Client for Google Cloud Storage.
	Bucket        string          // The bucket holding the media.
	Prefix        string          // Optional object prefix, without slashes.
	SignerEmail   string          // Service account that signs URLs; empty uses the client credentials.
	Sign          SignFunc        // Remote signer for SignerEmail, e.g. cloud.IAMSigner.
	SignedURLTTL  time.Duration   // Lifetime of URLs returned by URL.
}

// ObjectName returns the object holding a file of kind.
func (f *Files) ObjectName(kind model.MediaKind, name string) string {
	return path.Join(strings.Trim(f.Prefix, "/"), kind.Dir(), name)
}

func (f *Files) dirPrefix(kind model.MediaKind) string {
	return path.Join(strings.Trim(f.Prefix, "/"), kind.Dir()) + "/"
}

// List returns the names directly under the kind's prefix, in the bucket's
// lexicographic order.
func (f *Files) List(ctx context.Context, kind model.MediaKind) ([]string, error) {
	prefix := f.dirPrefix(kind)
	q := &storage.Query{Prefix: prefix, Delimiter: "/"}
	if err := q.SetAttrSelection([]string{"Name"}); err != nil {
		return nil, err
	}
	it := f.StorageClient.Bucket(f.Bucket).Objects(ctx, q)
	names := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w: %w", f.Bucket, prefix, model.ErrStoreUnavailable, err)
		}
		// Synthetic directory entries carry only Prefix.
		if attrs.Name == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(attrs.Name, prefix))
	}
	return names, nil
}

func (f *Files) Save(ctx context.Context, kind model.MediaKind, name string, body io.Reader, contentType string) error {
	object := f.ObjectName(kind, name)
	w := f.StorageClient.Bucket(f.Bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	written, err := io.Copy(w, body)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("upload gs://%s/%s: %w: %w", f.Bucket, object, model.ErrStoreUnavailable, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s: %w: %w", f.Bucket, object, model.ErrStoreUnavailable, err)
	}
	slog.DebugContext(ctx, "file written to bucket", "bucket", f.Bucket, "object", object, "bytes", written)
	return nil
}

func (f *Files) Delete(ctx context.Context, kind model.MediaKind, name string) error {
	object := f.ObjectName(kind, name)
	err := f.StorageClient.Bucket(f.Bucket).Object(object).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gs://%s/%s: %w", f.Bucket, object, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete gs://%s/%s: %w: %w", f.Bucket, object, model.ErrStoreUnavailable, err)
	}
	return nil
}

// URL checks the object exists and returns a time-limited signed URL for it.
func (f *Files) URL(ctx context.Context, kind model.MediaKind, name string) (string, error) {
	object := f.ObjectName(kind, name)
	bucket := f.StorageClient.Bucket(f.Bucket)
	if _, err := bucket.Object(object).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", fmt.Errorf("gs://%s/%s: %w", f.Bucket, object, model.ErrNotFound)
		}
		return "", fmt.Errorf("stat gs://%s/%s: %w: %w", f.Bucket, object, model.ErrStoreUnavailable, err)
	}

	u, err := bucket.SignedURL(object, f.signedURLOptions(ctx))
	if err != nil {
		return "", fmt.Errorf("sign gs://%s/%s: %w: %w", f.Bucket, object, model.ErrStoreUnavailable, err)
	}
	return u, nil
}

func (f *Files) signedURLOptions(ctx context.Context) *storage.SignedURLOptions {
	ttl := f.SignedURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	}
	if f.SignerEmail != "" && f.Sign != nil {
		opts.GoogleAccessID = f.SignerEmail
		opts.SignBytes = func(b []byte) ([]byte, error) {
			return f.Sign(ctx, b)
		}
	}
	return opts
}
