package jobs

import (
	"fmt"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/transformerlab/interactive/pkg/storage"
)

const (
	StoreKindFile   = "file"
	StoreKindSQLite = "sqlite"

	defaultSQLiteFile = "jobs.db"
)

// StoreConfig selects a job-state backend.
type StoreConfig struct {
	Kind      string
	Workspace string
	// DSN overrides the SQLite database location.
	DSN string
}

var defaultStoreConfig = StoreConfig{Kind: StoreKindFile}

func OpenStore(cfg StoreConfig) (Store, error) {
	if err := mergo.Merge(&cfg, defaultStoreConfig); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case StoreKindFile:
		if strings.HasPrefix(cfg.Workspace, storage.S3Prefix) {
			return nil, fmt.Errorf("file job store needs a local workspace, got %q", cfg.Workspace)
		}
		if cfg.Workspace == "" {
			return nil, fmt.Errorf("file job store needs a workspace")
		}
		return NewFileStore(cfg.Workspace), nil
	case StoreKindSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			if cfg.Workspace == "" || strings.HasPrefix(cfg.Workspace, storage.S3Prefix) {
				return nil, fmt.Errorf("sqlite job store needs a dsn or a local workspace")
			}
			dsn = filepath.Join(cfg.Workspace, defaultSQLiteFile)
		}
		return NewSQLiteStore(dsn)
	}
	return nil, fmt.Errorf("unknown job store %q", cfg.Kind)
}
