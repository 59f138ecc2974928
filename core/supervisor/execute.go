package supervisor

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"syscall"
)

const exitCommandNotFound = 127

type execResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	startErr error
}

// execute runs command through shell -c and buffers both streams until it
// exits. There is no timeout: the session runs until it ends on its own.
func execute(shell, command string, stdin io.Reader) execResult {
	cmd := exec.Command(shell, "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := execResult{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitCode(exitErr)
		return res
	}

	// the shell itself could not be started
	res.exitCode = exitCommandNotFound
	res.startErr = err
	return res
}

// exitCode follows the shell convention of 128+N for a child killed by
// signal N, since a negative code cannot be passed to os.Exit.
func exitCode(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}
