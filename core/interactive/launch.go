package interactive

import (
	"strings"

	"github.com/transformerlab/interactive/core/gallery"
)

// SetupPreamble is prepended to remote setup scripts. It exports SUDO
// (empty when already root or when sudo is unavailable) and keeps package
// managers from prompting.
const SetupPreamble = `export DEBIAN_FRONTEND=noninteractive; ` +
	`if [ "$(id -u)" -ne 0 ] && command -v sudo >/dev/null 2>&1; then SUDO="sudo -E"; else SUDO=""; fi; ` +
	`export SUDO`

// EffectiveSetup is the setup script to run for this launch: the override
// when the resolution produced one, the entry's setup otherwise.
func EffectiveSetup(entry *gallery.Entry, result Result) string {
	if result.SetupOverride != nil {
		return *result.SetupOverride
	}
	if entry == nil {
		return ""
	}
	return entry.Setup
}

// LaunchScript renders preamble, setup and command as one script. It is
// empty when the result has nothing to run.
func LaunchScript(entry *gallery.Entry, result Result) string {
	if result.Empty() {
		return ""
	}

	lines := []string{SetupPreamble}
	if setup := strings.TrimSpace(EffectiveSetup(entry, result)); setup != "" {
		lines = append(lines, setup)
	}
	lines = append(lines, result.Command)
	return strings.Join(lines, "\n") + "\n"
}
