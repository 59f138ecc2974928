// Package supervisor wraps the command of a remote interactive job. It
// reports the job's live status around the run, keeps a copy of the
// command's output with the job, and exits with the command's own code.
//
// Reporting is best-effort throughout: a broken job store or storage
// backend never changes what the wrapped command does or returns.
package supervisor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mudler/xlog"
	"github.com/transformerlab/interactive/core/jobs"
	"github.com/transformerlab/interactive/pkg/storage"
)

const (
	// LogFileName is the combined stdout/stderr copy inside the job directory.
	LogFileName = "provider_logs.txt"

	// JobIDEnv names the variable launchers set on the remote host.
	JobIDEnv = "_TFL_JOB_ID"

	ExitUsage = 1

	usage = "Usage: lab-interactive trap -- <command...>"
)

// Config carries everything the supervisor talks to. An empty JobID turns
// all reporting off; nil collaborators turn off their part of it.
type Config struct {
	JobID string

	Store   jobs.Store
	Dirs    jobs.DirResolver
	Storage storage.Storage

	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (c *Config) applyDefaults() {
	if c.Shell == "" {
		c.Shell = "/bin/sh"
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
}

// CommandArgs drops everything up to and including the first "--".
func CommandArgs(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args[i+1:]
		}
	}
	return args
}

// Run executes the command described by args and returns its exit code.
func Run(ctx context.Context, cfg Config, args []string) int {
	cfg.applyDefaults()

	cmdParts := CommandArgs(args)
	if len(cmdParts) == 0 {
		fmt.Fprintln(cfg.Stderr, usage)
		return ExitUsage
	}
	command := strings.Join(cmdParts, " ")

	r := reporter{cfg: cfg}
	if cfg.JobID == "" {
		xlog.Debug("no job id set, live status reporting disabled", "env", JobIDEnv)
	}

	r.setLiveStatus(ctx, jobs.LiveStatusStarted)

	res := execute(cfg.Shell, command, cfg.Stdin)
	if res.startErr != nil {
		fmt.Fprintf(cfg.Stderr, "failed to start command: %v\n", res.startErr)
	}

	// provider-native log collectors watch our streams, so they must see
	// exactly what the command printed
	if len(res.stdout) > 0 {
		cfg.Stdout.Write(res.stdout)
	}
	if len(res.stderr) > 0 {
		cfg.Stderr.Write(res.stderr)
	}

	r.writeProviderLogs(ctx, CombineOutput(res.stdout, res.stderr))

	if res.exitCode == 0 {
		r.setLiveStatus(ctx, jobs.LiveStatusFinished)
	} else {
		r.setLiveStatus(ctx, jobs.LiveStatusCrashed)
	}

	xlog.Debug("wrapped command exited", "exitCode", res.exitCode, "jobID", cfg.JobID)
	return res.exitCode
}

// CombineOutput joins stdout and stderr, each without trailing newlines,
// with a single newline. Empty streams are skipped.
func CombineOutput(stdout, stderr []byte) string {
	var parts []string
	for _, out := range [][]byte{stdout, stderr} {
		if len(out) > 0 {
			parts = append(parts, strings.TrimRight(string(out), "\n"))
		}
	}
	return strings.Join(parts, "\n")
}
