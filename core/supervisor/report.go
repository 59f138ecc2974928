package supervisor

import (
	"context"
	"fmt"

	"github.com/mudler/xlog"
	"github.com/transformerlab/interactive/core/jobs"
	"github.com/transformerlab/interactive/pkg/storage"
)

// BestEffort runs fn and discards whatever goes wrong, panics included.
// Every status and log write in this package goes through it.
func BestEffort(ctx context.Context, op string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			xlog.Debug("best-effort operation panicked", "op", op, "panic", r)
		}
	}()

	if err := fn(ctx); err != nil {
		xlog.Debug("best-effort operation failed", "op", op, "error", err)
	}
}

type reporter struct {
	cfg Config
}

func (r reporter) setLiveStatus(ctx context.Context, status jobs.LiveStatus) {
	if r.cfg.JobID == "" || r.cfg.Store == nil {
		return
	}

	BestEffort(ctx, "set live_status", func(ctx context.Context) error {
		if _, err := r.cfg.Store.Get(ctx, r.cfg.JobID); err != nil {
			return err
		}
		return r.cfg.Store.UpdateJobDataField(ctx, r.cfg.JobID, jobs.FieldLiveStatus, string(status))
	})
}

func (r reporter) writeProviderLogs(ctx context.Context, logs string) {
	if r.cfg.JobID == "" || r.cfg.Dirs == nil || r.cfg.Storage == nil {
		return
	}

	BestEffort(ctx, "write provider logs", func(ctx context.Context) error {
		jobDir, err := r.cfg.Dirs.JobDir(ctx, r.cfg.JobID)
		if err != nil {
			return fmt.Errorf("failed to resolve job dir: %w", err)
		}

		// some backends have no directories; a failure here is not fatal
		BestEffort(ctx, "create job dir", func(ctx context.Context) error {
			return r.cfg.Storage.MakeDirs(ctx, jobDir)
		})

		return storage.WriteString(ctx, r.cfg.Storage, r.cfg.Storage.Join(jobDir, LogFileName), logs)
	})
}
