package interactive_test

import (
	"github.com/transformerlab/interactive/core/gallery"
	. "github.com/transformerlab/interactive/core/interactive"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Launch helpers", func() {
	It("defines SUDO and disables prompts in the preamble", func() {
		Expect(SetupPreamble).To(ContainSubstring("SUDO="))
		Expect(SetupPreamble).To(ContainSubstring("DEBIAN_FRONTEND=noninteractive"))
	})

	Describe("EffectiveSetup", func() {
		entry := &gallery.Entry{Setup: "pip install jupyterlab"}

		It("uses the entry setup without an override", func() {
			Expect(EffectiveSetup(entry, Result{Command: "x"})).To(Equal("pip install jupyterlab"))
		})

		It("replaces the entry setup with an override, even an empty one", func() {
			empty := ""
			Expect(EffectiveSetup(entry, Result{Command: "x", SetupOverride: &empty})).To(BeEmpty())
		})

		It("handles a missing entry", func() {
			Expect(EffectiveSetup(nil, Result{})).To(BeEmpty())
		})
	})

	Describe("LaunchScript", func() {
		It("renders preamble, setup and command", func() {
			entry := jupyterEntry()
			script := LaunchScript(entry, Resolve(entry, EnvironmentRemote))
			Expect(script).To(Equal(SetupPreamble + "\n" +
				"pip install jupyterlab\n" +
				"jupyter lab --port=8888; ngrok http 8888; tail -f /tmp/jupyter.log /tmp/ngrok.log\n"))
		})

		It("skips an empty setup", func() {
			entry := &gallery.Entry{Command: "serve"}
			Expect(LaunchScript(entry, Resolve(entry, EnvironmentLocal))).To(Equal(SetupPreamble + "\nserve\n"))
		})

		It("is empty when there is nothing to run", func() {
			Expect(LaunchScript(&gallery.Entry{}, Result{})).To(BeEmpty())
		})
	})
})
