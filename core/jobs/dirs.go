package jobs

import (
	"context"
	"fmt"

	"github.com/transformerlab/interactive/pkg/storage"
)

const jobsDirName = "jobs"

// DirResolver maps a job id to the location holding its artifacts.
type DirResolver interface {
	JobDir(ctx context.Context, id string) (string, error)
}

// WorkspaceDirs lays jobs out as <root>/jobs/<id> on any storage backend.
type WorkspaceDirs struct {
	Storage storage.Storage
	Root    string
}

func (w WorkspaceDirs) JobDir(_ context.Context, id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	if w.Storage == nil {
		return "", fmt.Errorf("no storage configured for workspace %q", w.Root)
	}
	return w.Storage.Join(w.Root, jobsDirName, id), nil
}
