package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

type Local struct{}

func (Local) Join(elem ...string) string {
	return filepath.Join(elem...)
}

func (Local) MakeDirs(_ context.Context, path string) error {
	return os.MkdirAll(path, 0o755)
}

func (Local) WriteFile(_ context.Context, path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return write(f)
}
