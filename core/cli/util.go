package cli

import (
	"fmt"
	"io"
	"os"
)

// ExitError asks main to exit with Code without logging a failure. The
// trap command uses it to hand back the wrapped command's exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
