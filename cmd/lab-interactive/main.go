package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mudler/xlog"
	"github.com/transformerlab/interactive/core/cli"
	"github.com/transformerlab/interactive/internal"
)

// envFiles lists the dotenv files read before flag parsing, in load order.
// godotenv never overrides, so the first file to set a variable wins.
func envFiles(homeDir string) []string {
	files := []string{".env", "lab.env"}
	if homeDir != "" {
		files = append(files, filepath.Join(homeDir, ".config", "lab.env"))
	}
	return files
}

func loadEnvFiles(files []string) {
	for _, envFile := range files {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		xlog.Debug("env file found, loading environment variables from file", "envFile", envFile)
		if err := godotenv.Load(envFile); err != nil {
			xlog.Error("failed to load environment variables from file", "error", err, "envFile", envFile)
		}
	}
}

func defaultWorkspace(homeDir string) string {
	return filepath.Join(homeDir, ".transformerlab", "workspace")
}

func main() {
	// Start at INFO, the flags pick the real level once parsed
	xlog.SetLogger(xlog.NewLogger(xlog.LogLevel("info"), "text"))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		xlog.Debug("no home directory, skipping per-user env file", "error", err)
		homeDir = ""
	}
	loadEnvFiles(envFiles(homeDir))

	ctx := kong.Parse(&cli.CLI,
		kong.Description(
			`  lab-interactive resolves and supervises interactive sessions (Jupyter, vLLM, Ollama, ...) launched from an interactive gallery.

Inside a remote job, wrap the session command with: lab-interactive trap -- <command...>

Version: ${version}
`,
		),
		kong.UsageOnError(),
		kong.Vars{
			"basepath":  kong.ExpandPath("."),
			"gallery":   filepath.Join(kong.ExpandPath("."), "interactive-gallery.json"),
			"workspace": defaultWorkspace(homeDir),
			"version":   internal.PrintableVersion(),
		},
	)

	logLevel := "info"
	if cli.CLI.LogLevel == nil {
		cli.CLI.LogLevel = &logLevel
	}
	xlog.SetLogger(xlog.NewLogger(xlog.LogLevel(*cli.CLI.LogLevel), *cli.CLI.LogFormat))

	if err := ctx.Run(&cli.CLI.Context); err != nil {
		// the wrapped command already spoke for itself, just pass its code on
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		xlog.Fatal("Error running the application", "error", err)
	}
}
