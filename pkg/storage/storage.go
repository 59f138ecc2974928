// Package storage abstracts where job artifacts live: the local filesystem
// or an S3 bucket, addressed with s3://bucket/prefix roots.
package storage

import (
	"context"
	"io"
	"strings"
)

// Storage is the minimal file API the job tooling needs.
type Storage interface {
	// Join builds a location from path elements.
	Join(elem ...string) string
	// MakeDirs creates path and its parents. Backends without real
	// directories treat it as a no-op.
	MakeDirs(ctx context.Context, path string) error
	// WriteFile opens path for writing, hands it to write and always
	// closes it. The file is replaced, not appended.
	WriteFile(ctx context.Context, path string, write func(w io.Writer) error) error
}

// New picks the backend for root.
func New(ctx context.Context, root string) (Storage, error) {
	if strings.HasPrefix(root, S3Prefix) {
		s, err := NewS3(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return Local{}, nil
}

// WriteString is a convenience around Storage.WriteFile for text content.
func WriteString(ctx context.Context, s Storage, path, content string) error {
	return s.WriteFile(ctx, path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}
