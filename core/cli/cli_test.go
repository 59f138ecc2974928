package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/transformerlab/interactive/core/cli"
	cliContext "github.com/transformerlab/interactive/core/cli/context"
	"github.com/transformerlab/interactive/core/interactive"
	"github.com/transformerlab/interactive/core/jobs"
	"github.com/transformerlab/interactive/core/supervisor"
)

const galleryJSON = `[
  {
    "id": "jupyter",
    "name": "Jupyter Lab",
    "description": "Notebook server",
    "tags": ["notebook", "python"],
    "interactive_type": "jupyter",
    "setup": "pip install jupyterlab",
    "logic": {
      "core": "jupyter lab --port=8888;",
      "tunnel": "ngrok http 8888",
      "tail_logs": "tail -f /tmp/jupyter.log /tmp/ngrok.log"
    }
  },
  {
    "id": "ollama-gpu",
    "name": "Ollama",
    "interactive_type": "ollama",
    "commands": {
      "remote": {
        "NVIDIA": {"command": "ollama serve --gpu", "setup": "install-cuda"},
        "default": "ollama serve"
      }
    }
  }
]`

var _ = Describe("CLI", func() {
	var (
		ctx     *cliContext.Context
		dir     string
		flags   GalleryCMDFlags
		out     *bytes.Buffer
	)

	BeforeEach(func() {
		ctx = &cliContext.Context{}
		var err error
		dir, err = os.MkdirTemp("", "cli-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path := filepath.Join(dir, "interactive-gallery.json")
		Expect(os.WriteFile(path, []byte(galleryJSON), 0o644)).To(Succeed())
		flags = GalleryCMDFlags{Gallery: path, BasePath: dir}
		out = &bytes.Buffer{}
	})

	Describe("resolve", func() {
		It("prints the composed command for local launches", func() {
			cmd := &ResolveCMD{ID: "jupyter", Environment: "local", GalleryCMDFlags: flags, Out: out}
			Expect(cmd.Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal("jupyter lab --port=8888; echo 'Local URL: http://localhost:8888'; tail -f /tmp/jupyter.log\n"))
		})

		It("keeps the tunnel for remote launches", func() {
			cmd := &ResolveCMD{ID: "jupyter", Environment: "remote", GalleryCMDFlags: flags, Out: out}
			Expect(cmd.Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal("jupyter lab --port=8888; ngrok http 8888; tail -f /tmp/jupyter.log /tmp/ngrok.log\n"))
		})

		It("falls back to the interactive type", func() {
			cmd := &ResolveCMD{ID: "missing", Type: "jupyter", Environment: "local", GalleryCMDFlags: flags, Out: out}
			Expect(cmd.Run(ctx)).To(Succeed())
			Expect(out.String()).To(HavePrefix("jupyter lab --port=8888"))
		})

		It("prints a whole launch script", func() {
			cmd := &ResolveCMD{ID: "jupyter", Environment: "remote", Script: true, GalleryCMDFlags: flags, Out: out}
			Expect(cmd.Run(ctx)).To(Succeed())
			Expect(out.String()).To(HavePrefix(interactive.SetupPreamble + "\npip install jupyterlab\njupyter lab"))
		})

		It("fails for unknown entries", func() {
			cmd := &ResolveCMD{ID: "missing", GalleryCMDFlags: flags, Out: out}
			Expect(cmd.Run(ctx)).To(MatchError(ContainSubstring("no interactive gallery entry")))
		})

		It("ignores the commands map unless asked to", func() {
			cmd := &ResolveCMD{ID: "ollama-gpu", Environment: "remote", GalleryCMDFlags: flags, Out: out}
			Expect(cmd.Run(ctx)).To(MatchError(ContainSubstring("has no command")))
		})

		It("reads the commands map for the requested accelerator", func() {
			cmd := &ResolveCMD{
				ID: "ollama-gpu", Environment: "remote", LegacyCommands: true, Accelerator: "cuda:1",
				Script: true, GalleryCMDFlags: flags, Out: out,
			}
			Expect(cmd.Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal(interactive.SetupPreamble + "\ninstall-cuda\nollama serve --gpu\n"))
		})

		It("uses the remote default for unknown accelerators", func() {
			cmd := &ResolveCMD{
				ID: "ollama-gpu", Environment: "local", LegacyCommands: true,
				SupportedAccelerators: []string{"cpu"}, GalleryCMDFlags: flags, Out: out,
			}
			Expect(cmd.Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal("ollama serve\n"))
		})
	})

	Describe("gallery", func() {
		It("lists every entry", func() {
			Expect((&GalleryList{GalleryCMDFlags: flags, Out: out}).Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal(" - jupyter (jupyter): Jupyter Lab\n - ollama-gpu (ollama): Ollama\n"))
		})

		It("searches entries", func() {
			Expect((&GallerySearch{Term: "notebook", GalleryCMDFlags: flags, Out: out}).Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal(" - jupyter (jupyter): Jupyter Lab\n"))
		})

		It("shows the entry a launch would use", func() {
			Expect((&GalleryFind{Type: "ollama", GalleryCMDFlags: flags, Out: out}).Run(ctx)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("id: ollama-gpu\n"))
			Expect(out.String()).To(ContainSubstring("schema: commands\n"))
		})

		It("reports unknown entries", func() {
			Expect((&GalleryFind{ID: "nope", GalleryCMDFlags: flags, Out: out}).Run(ctx)).To(HaveOccurred())
		})

		It("fails on unreadable galleries", func() {
			flags.Gallery = filepath.Join(dir, "missing.json")
			Expect((&GalleryList{GalleryCMDFlags: flags, Out: out}).Run(ctx)).To(HaveOccurred())
		})
	})

	Describe("preamble", func() {
		It("prints the setup preamble", func() {
			Expect((&PreambleCMD{Out: out}).Run(ctx)).To(Succeed())
			Expect(out.String()).To(Equal(interactive.SetupPreamble + "\n"))
		})
	})

	Describe("trap", func() {
		var (
			store          *jobs.FileStore
			job            *jobs.Job
			stdout, stderr *bytes.Buffer
		)

		BeforeEach(func() {
			store = jobs.NewFileStore(dir)
			var err error
			job, err = jobs.Create(context.Background(), store, "INTERACTIVE")
			Expect(err).ToNot(HaveOccurred())
			stdout = &bytes.Buffer{}
			stderr = &bytes.Buffer{}
		})

		trap := func(jobID string, command ...string) *TrapCMD {
			return &TrapCMD{
				Command:       command,
				JobID:         jobID,
				JobStoreFlags: JobStoreFlags{Workspace: dir, JobStore: "file"},
				Stdin:         &bytes.Buffer{},
				Stdout:        stdout,
				Stderr:        stderr,
			}
		}

		liveStatus := func() jobs.LiveStatus {
			fetched, err := store.Get(context.Background(), job.ID)
			Expect(err).ToNot(HaveOccurred())
			return fetched.LiveStatus()
		}

		It("marks the job finished and saves its output", func() {
			Expect(trap(job.ID, "--", "echo", "hello").Run(ctx)).To(Succeed())
			Expect(stdout.String()).To(Equal("hello\n"))
			Expect(liveStatus()).To(Equal(jobs.LiveStatusFinished))

			logs, err := os.ReadFile(filepath.Join(dir, "jobs", job.ID, supervisor.LogFileName))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(logs)).To(Equal("hello"))
		})

		It("hands back the command's exit code", func() {
			Expect(trap(job.ID, "exit", "5").Run(ctx)).To(MatchError(&ExitError{Code: 5}))
			Expect(liveStatus()).To(Equal(jobs.LiveStatusCrashed))
		})

		It("keeps later separators in the command", func() {
			Expect(trap("", "--", "echo", "a", "--", "b").Run(ctx)).To(Succeed())
			Expect(stdout.String()).To(Equal("a -- b\n"))
		})

		It("runs without reporting when the job is unknown", func() {
			Expect(trap("unknown-job", "--", "true").Run(ctx)).To(Succeed())
			Expect(liveStatus()).To(BeEmpty())
		})

		It("exits with usage when no command is given", func() {
			Expect(trap(job.ID).Run(ctx)).To(MatchError(&ExitError{Code: 1}))
			Expect(stderr.String()).To(ContainSubstring("Usage:"))
			Expect(liveStatus()).To(BeEmpty())
		})
	})

	Describe("command tree", func() {
		It("parses with the default variables", func() {
			var grammar struct {
				Resolve ResolveCMD `cmd:""`
				Gallery GalleryCMD `cmd:""`
			}
			parser, err := kong.New(&grammar, kong.Vars{
				"basepath":  dir,
				"gallery":   filepath.Join(dir, "interactive-gallery.json"),
				"workspace": dir,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = parser.Parse([]string{"resolve", "jupyter", "-e", "local", "--supported-accelerators", "NVIDIA,cpu"})
			Expect(err).ToNot(HaveOccurred())
			Expect(grammar.Resolve.ID).To(Equal("jupyter"))
			Expect(grammar.Resolve.Environment).To(Equal("local"))
			Expect(grammar.Resolve.SupportedAccelerators).To(Equal([]string{"NVIDIA", "cpu"}))
			Expect(grammar.Resolve.Gallery).To(Equal(filepath.Join(dir, "interactive-gallery.json")))
		})
	})
})
