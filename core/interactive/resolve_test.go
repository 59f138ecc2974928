package interactive_test

import (
	"github.com/transformerlab/interactive/core/gallery"
	. "github.com/transformerlab/interactive/core/interactive"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func jupyterEntry() *gallery.Entry {
	return &gallery.Entry{
		ID:              "jupyter",
		InteractiveType: "jupyter",
		Setup:           "pip install jupyterlab",
		Logic: &gallery.LogicBlock{
			Core:     "jupyter lab --port=8888",
			Tunnel:   "ngrok http 8888",
			TailLogs: "tail -f /tmp/jupyter.log /tmp/ngrok.log",
		},
	}
}

var _ = Describe("Resolve", func() {
	Context("logic block", func() {
		It("composes the jupyter entry locally", func() {
			result := Resolve(jupyterEntry(), EnvironmentLocal)
			Expect(result.Command).To(Equal("jupyter lab --port=8888; echo 'Local URL: http://localhost:8888'; tail -f /tmp/jupyter.log"))
			Expect(result.SetupOverride).To(BeNil())
		})

		It("composes the jupyter entry remotely", func() {
			result := Resolve(jupyterEntry(), EnvironmentRemote)
			Expect(result.Command).To(Equal("jupyter lab --port=8888; ngrok http 8888; tail -f /tmp/jupyter.log /tmp/ngrok.log"))
			Expect(result.SetupOverride).To(BeNil())
		})

		It("never includes the tunnel locally", func() {
			result := Resolve(jupyterEntry(), EnvironmentLocal)
			Expect(result.Command).ToNot(ContainSubstring("ngrok"))
		})

		It("wins over the legacy command", func() {
			entry := jupyterEntry()
			entry.Command = "legacy"
			Expect(Resolve(entry, EnvironmentRemote).Command).To(HavePrefix("jupyter lab"))
		})

		It("falls back to the legacy command when core is missing", func() {
			entry := &gallery.Entry{
				Command: "legacy",
				Logic:   &gallery.LogicBlock{Tunnel: "ngrok http 8888"},
			}
			Expect(Resolve(entry, EnvironmentRemote)).To(Equal(Result{Command: "legacy"}))
		})

		It("is idempotent", func() {
			entry := jupyterEntry()
			for _, env := range []Environment{EnvironmentLocal, EnvironmentRemote} {
				Expect(Resolve(entry, env)).To(Equal(Resolve(entry, env)))
			}
		})
	})

	Context("legacy command", func() {
		DescribeTable("returns the command with no setup override in any environment",
			func(env Environment) {
				entry := &gallery.Entry{
					Command: "X",
					Setup:   "legacy-setup",
					Commands: map[string]any{
						"local":  map[string]any{"default": "local-cmd"},
						"remote": map[string]any{"default": "remote-cmd"},
					},
				}
				result := Resolve(entry, env)
				Expect(result.Command).To(Equal("X"))
				Expect(result.SetupOverride).To(BeNil())
			},
			Entry("local", EnvironmentLocal),
			Entry("remote", EnvironmentRemote),
			Entry("unknown environment", ParseEnvironment("kubernetes")),
		)
	})

	It("degrades to an empty result", func() {
		Expect(Resolve(nil, EnvironmentRemote).Empty()).To(BeTrue())
		Expect(Resolve(&gallery.Entry{ID: "nothing"}, EnvironmentLocal).Empty()).To(BeTrue())
	})

	Describe("ParseEnvironment", func() {
		It("maps everything but local to remote", func() {
			Expect(ParseEnvironment("local")).To(Equal(EnvironmentLocal))
			Expect(ParseEnvironment("remote")).To(Equal(EnvironmentRemote))
			Expect(ParseEnvironment("")).To(Equal(EnvironmentRemote))
			Expect(ParseEnvironment("Local")).To(Equal(EnvironmentRemote))
		})
	})
})

var _ = Describe("Resolver", func() {
	It("uses the canonical chain by default", func() {
		Expect(NewResolver().Strategies()).To(Equal([]string{"logic", "command"}))
	})

	It("inserts the commands map before the legacy command", func() {
		r := NewResolver(WithCommandsMap("", nil))
		Expect(r.Strategies()).To(Equal([]string{"logic", "commands", "command"}))
	})

	It("accepts a custom chain", func() {
		r := NewResolver(WithStrategies(CommandStrategy{}))
		entry := jupyterEntry()
		entry.Command = "legacy"
		Expect(r.Resolve(entry, EnvironmentRemote).Command).To(Equal("legacy"))
	})

	Context("commands map", func() {
		setup := "pip install vllm[cuda]"
		entry := &gallery.Entry{
			Command: "legacy",
			Setup:   "legacy-setup",
			Commands: map[string]any{
				"local": map[string]any{
					"AppleSilicon": "mlx serve",
					"default":      "local default",
				},
				"remote": map[string]any{
					"NVIDIA":  map[string]any{"command": "vllm serve --gpu", "setup": setup},
					"AMD":     "",
					"default": "remote default",
				},
			},
		}

		It("uses the environment and accelerator key", func() {
			r := NewResolver(WithCommandsMap("", []string{"cpu", "AppleSilicon"}))
			Expect(r.Resolve(entry, EnvironmentLocal)).To(Equal(Result{Command: "mlx serve"}))
		})

		It("uses the environment default", func() {
			r := NewResolver(WithCommandsMap("", []string{"cpu"}))
			Expect(r.Resolve(entry, EnvironmentLocal).Command).To(Equal("local default"))
		})

		It("returns a setup override from object values", func() {
			r := NewResolver(WithCommandsMap("A100:4", nil))
			result := r.Resolve(entry, EnvironmentRemote)
			Expect(result.Command).To(Equal("vllm serve --gpu"))
			Expect(result.SetupOverride).ToNot(BeNil())
			Expect(*result.SetupOverride).To(Equal(setup))
			Expect(EffectiveSetup(entry, result)).To(Equal(setup))
		})

		It("falls through empty values to the remote default", func() {
			r := NewResolver(WithCommandsMap("rocm", nil))
			Expect(r.Resolve(entry, EnvironmentRemote).Command).To(Equal("remote default"))
		})

		It("falls back to the remote map when the local map is missing", func() {
			remoteOnly := &gallery.Entry{Commands: map[string]any{
				"remote": map[string]any{"default": "remote default"},
			}}
			r := NewResolver(WithCommandsMap("", nil))
			Expect(r.Resolve(remoteOnly, EnvironmentLocal).Command).To(Equal("remote default"))
		})

		It("falls back to the legacy command when nothing matches", func() {
			other := &gallery.Entry{Command: "legacy", Commands: map[string]any{"remote": "not a map"}}
			r := NewResolver(WithCommandsMap("", nil))
			Expect(r.Resolve(other, EnvironmentRemote)).To(Equal(Result{Command: "legacy"}))
		})

		It("is still preceded by the logic block", func() {
			withLogic := jupyterEntry()
			withLogic.Commands = entry.Commands
			r := NewResolver(WithCommandsMap("cuda", nil))
			Expect(r.Resolve(withLogic, EnvironmentRemote).Command).To(HavePrefix("jupyter lab"))
		})
	})
})
