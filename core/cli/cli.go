package cli

import (
	cliContext "github.com/transformerlab/interactive/core/cli/context"
)

var CLI struct {
	cliContext.Context `embed:""`

	Trap     TrapCMD     `cmd:"" help:"Run a remote job's command, reporting its live status and saving its output. Usage: lab-interactive trap -- <command...>"`
	Resolve  ResolveCMD  `cmd:"" help:"Resolve the launch command of an interactive gallery entry"`
	Gallery  GalleryCMD  `cmd:"" help:"Inspect the interactive gallery"`
	Preamble PreambleCMD `cmd:"" help:"Print the shell preamble prepended to remote setup scripts"`
}
