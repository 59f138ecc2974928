package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const indexFileName = "index.json"

// FileStore keeps each job as <root>/jobs/<id>/index.json, next to the job's
// other artifacts. Writers take a file lock so several processes (the API
// and a supervisor on the same host) can share a workspace.
type FileStore struct {
	root string
	sync.Mutex
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) jobDir(id string) string {
	return filepath.Join(s.root, jobsDirName, id)
}

func (s *FileStore) indexPath(id string) string {
	return filepath.Join(s.jobDir(id), indexFileName)
}

func (s *FileStore) Get(_ context.Context, id string) (*Job, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var job *Job
	err := s.withLock(id, false, func() error {
		var err error
		job, err = s.load(id)
		return err
	})
	return job, err
}

func (s *FileStore) Put(_ context.Context, job *Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	if err := validateID(job.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.jobDir(job.ID), 0o755); err != nil {
		return err
	}

	return s.withLock(job.ID, true, func() error {
		return s.save(job)
	})
}

func (s *FileStore) UpdateJobDataField(_ context.Context, id, key string, value any) error {
	if err := validateID(id); err != nil {
		return err
	}

	return s.withLock(id, false, func() error {
		job, err := s.load(id)
		if err != nil {
			return err
		}
		if job.JobData == nil {
			job.JobData = map[string]any{}
		}
		job.JobData[key] = value
		job.UpdatedAt = time.Now().UTC()
		return s.save(job)
	})
}

// withLock serialises access to one job, within the process and across
// processes. The job directory must exist unless create is set.
func (s *FileStore) withLock(id string, create bool, fn func() error) error {
	if !create {
		if _, err := os.Stat(s.jobDir(id)); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
	}

	s.Lock()
	defer s.Unlock()

	fileLock := flock.New(s.indexPath(id) + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock job %s: %w", id, err)
	}
	defer fileLock.Unlock()

	return fn()
}

func (s *FileStore) load(id string) (*Job, error) {
	data, err := os.ReadFile(s.indexPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *FileStore) save(job *Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return err
	}

	// write then rename so readers never see a partial index
	tmp := s.indexPath(job.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.indexPath(job.ID))
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return fmt.Errorf("invalid job id %q", id)
	}
	return nil
}
