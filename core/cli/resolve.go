package cli

import (
	"fmt"
	"io"

	"github.com/mudler/xlog"
	cliContext "github.com/transformerlab/interactive/core/cli/context"
	"github.com/transformerlab/interactive/core/interactive"
	"github.com/transformerlab/interactive/pkg/system"
)

type ResolveCMD struct {
	ID          string `arg:"" optional:"" name:"id" help:"Gallery entry id, e.g. jupyter or ollama-macos"`
	Type        string `name:"type" short:"t" help:"interactive_type to match when no entry has the id"`
	Environment string `name:"environment" short:"e" env:"LAB_ENVIRONMENT" default:"remote" help:"Target environment; anything other than local is remote"`

	LegacyCommands        bool     `name:"legacy-commands" help:"Also read the superseded per-accelerator commands map"`
	Accelerator           string   `env:"LAB_ACCELERATOR" help:"Requested accelerator for the commands map, e.g. cuda:1" group:"legacy"`
	SupportedAccelerators []string `name:"supported-accelerators" sep:"," help:"Accelerators the provider reports; detected on this host for local launches when empty" group:"legacy"`

	Script bool `help:"Print the full launch script (preamble, setup, command) instead of the command"`

	GalleryCMDFlags `embed:""`

	Out io.Writer `kong:"-"`
}

func (r *ResolveCMD) Run(ctx *cliContext.Context) error {
	entries, err := r.load()
	if err != nil {
		return err
	}

	entry := entries.Find(r.ID, r.Type)
	if entry == nil {
		return fmt.Errorf("no interactive gallery entry matches id %q or type %q", r.ID, r.Type)
	}

	env := interactive.ParseEnvironment(r.Environment)
	resolver := interactive.NewResolver()
	if r.LegacyCommands {
		supported := r.SupportedAccelerators
		if env == interactive.EnvironmentLocal && len(supported) == 0 {
			supported = system.DetectSupportedAccelerators()
		}
		resolver = interactive.NewResolver(interactive.WithCommandsMap(r.Accelerator, supported))
	}
	xlog.Debug("resolving interactive command", "id", entry.ID, "environment", env, "strategies", resolver.Strategies())

	result := resolver.Resolve(entry, env)
	if result.Empty() {
		return fmt.Errorf("gallery entry %q has no command for the %s environment", entry.ID, env)
	}

	out := writerOrStdout(r.Out)
	if r.Script {
		fmt.Fprint(out, interactive.LaunchScript(entry, result))
		return nil
	}
	fmt.Fprintln(out, result.Command)
	return nil
}
