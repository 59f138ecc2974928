// Package jobs holds the job-state store used to report the lifecycle of
// interactive sessions and to locate per-job artifact directories.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FieldLiveStatus is the job_data key carrying the session lifecycle.
const FieldLiveStatus = "live_status"

// LiveStatus moves unset -> started -> finished|crashed.
type LiveStatus string

const (
	LiveStatusStarted  LiveStatus = "started"
	LiveStatusFinished LiveStatus = "finished"
	LiveStatusCrashed  LiveStatus = "crashed"
)

var ErrJobNotFound = errors.New("job not found")

type Job struct {
	ID        string         `json:"id"`
	Type      string         `json:"type,omitempty"`
	Status    string         `json:"status,omitempty"`
	JobData   map[string]any `json:"job_data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LiveStatus returns the recorded lifecycle state, empty when unset.
func (j *Job) LiveStatus() LiveStatus {
	if j == nil || j.JobData == nil {
		return ""
	}
	s, _ := j.JobData[FieldLiveStatus].(string)
	return LiveStatus(s)
}

// Store persists jobs. Get returns ErrJobNotFound for unknown ids.
type Store interface {
	Get(ctx context.Context, id string) (*Job, error)
	Put(ctx context.Context, job *Job) error
	UpdateJobDataField(ctx context.Context, id, key string, value any) error
}

// NewJob returns a job with a fresh id, not yet stored.
func NewJob(jobType string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    "QUEUED",
		JobData:   map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Create stores a new job of the given type.
func Create(ctx context.Context, store Store, jobType string) (*Job, error) {
	job := NewJob(jobType)
	if err := store.Put(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}
