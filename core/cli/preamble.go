package cli

import (
	"fmt"
	"io"

	cliContext "github.com/transformerlab/interactive/core/cli/context"
	"github.com/transformerlab/interactive/core/interactive"
)

type PreambleCMD struct {
	Out io.Writer `kong:"-"`
}

func (p *PreambleCMD) Run(ctx *cliContext.Context) error {
	fmt.Fprintln(writerOrStdout(p.Out), interactive.SetupPreamble)
	return nil
}
