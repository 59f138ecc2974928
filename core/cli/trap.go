package cli

import (
	"context"
	"io"

	"github.com/mudler/xlog"
	cliContext "github.com/transformerlab/interactive/core/cli/context"
	"github.com/transformerlab/interactive/core/jobs"
	"github.com/transformerlab/interactive/core/supervisor"
	"github.com/transformerlab/interactive/pkg/storage"
)

type JobStoreFlags struct {
	Workspace string `env:"LAB_WORKSPACE_DIR" default:"${workspace}" help:"Workspace holding job state and job directories (local path or s3://bucket/prefix)" group:"storage"`
	JobStore  string `env:"LAB_JOB_STORE" default:"file" enum:"file,sqlite" help:"Job state backend [${enum}]" group:"storage"`
	JobDB     string `env:"LAB_JOB_DB" help:"SQLite database for the sqlite job store, defaults to <workspace>/jobs.db" group:"storage"`
}

type TrapCMD struct {
	Command []string `arg:"" optional:"" passthrough:"" name:"command" help:"Command to run, after --"`
	JobID   string   `env:"_TFL_JOB_ID" name:"job-id" help:"Job whose live status and logs are updated; reporting is off when empty"`

	JobStoreFlags `embed:""`

	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (t *TrapCMD) Run(ctx *cliContext.Context) error {
	c := context.Background()

	// kong may or may not hand us the separator; the supervisor expects one
	args := t.Command
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	cfg := supervisor.Config{
		JobID:  t.JobID,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
		Stderr: t.Stderr,
	}
	if t.JobID != "" && len(args) > 0 {
		closeStore := t.wireReporting(c, &cfg)
		defer closeStore()
	}

	code := supervisor.Run(c, cfg, append([]string{"--"}, args...))
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// wireReporting opens whatever reporting backends it can. Nothing here may
// keep the command from running, so failures only disable reporting.
func (t *TrapCMD) wireReporting(ctx context.Context, cfg *supervisor.Config) func() {
	closeStore := func() {}

	store, err := jobs.OpenStore(jobs.StoreConfig{Kind: t.JobStore, Workspace: t.Workspace, DSN: t.JobDB})
	if err != nil {
		xlog.Debug("job store unavailable, live status will not be reported", "error", err, "workspace", t.Workspace)
	} else {
		cfg.Store = store
		if closer, ok := store.(io.Closer); ok {
			closeStore = func() {
				if err := closer.Close(); err != nil {
					xlog.Debug("failed to close job store", "error", err)
				}
			}
		}
	}

	st, err := storage.New(ctx, t.Workspace)
	if err != nil {
		xlog.Debug("workspace storage unavailable, provider logs will not be saved", "error", err, "workspace", t.Workspace)
		return closeStore
	}
	cfg.Storage = st
	cfg.Dirs = jobs.WorkspaceDirs{Storage: st, Root: t.Workspace}

	return closeStore
}
