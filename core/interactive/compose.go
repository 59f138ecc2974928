package interactive

import (
	"slices"
	"strings"

	"github.com/transformerlab/interactive/core/gallery"
)

const (
	// TunnelLogPath is where the tunnel process writes its log on remote hosts.
	TunnelLogPath = "/tmp/ngrok.log"

	fragmentSeparator = "; "
)

// localURLEcho is shown in place of a tunnel URL when running locally.
var localURLEcho = map[string]string{
	"jupyter": "echo 'Local URL: http://localhost:8888'",
	"vllm":    "echo 'Local API URL: http://localhost:8000'; echo 'Local Web UI URL: http://localhost:7860'",
	"ollama":  "echo 'Local API URL: http://localhost:11434'; echo 'Local Web UI URL: http://localhost:8080'",
}

// commands that may prefix a tail invocation.
var tailWrappers = map[string]bool{
	"sudo": true, "exec": true, "nohup": true, "command": true,
}

// tail flags that consume the following token.
var tailValueFlags = map[string]bool{
	"-n": true, "-c": true, "-s": true,
	"--lines": true, "--bytes": true, "--pid": true,
	"--sleep-interval": true, "--max-unchanged-stats": true,
}

// Compose builds a single shell line out of a logic block. The boolean is
// false when the block cannot produce a command (no core), in which case
// callers fall back to other resolution paths.
func Compose(logic *gallery.LogicBlock, interactiveType string, env Environment) (string, bool) {
	if logic == nil {
		return "", false
	}

	core := cleanFragment(logic.Core)
	if core == "" {
		return "", false
	}

	fragments := []string{core}

	switch env {
	case EnvironmentLocal:
		if echo, ok := localURLEcho[interactiveType]; ok {
			fragments = append(fragments, echo)
		}
	default:
		if tunnel := cleanFragment(logic.Tunnel); tunnel != "" {
			fragments = append(fragments, tunnel)
		}
	}

	if tail := cleanFragment(logic.TailLogs); tail != "" {
		if env == EnvironmentLocal {
			tail = stripTunnelLog(tail)
		}
		if tail != "" {
			fragments = append(fragments, tail)
		}
	}

	return strings.Join(fragments, fragmentSeparator), true
}

// cleanFragment trims whitespace and one trailing semicolon.
func cleanFragment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

// stripTunnelLog removes TunnelLogPath operands from tail invocations. Each
// ";"-separated command is handled on its own, and a tail may sit behind
// wrappers such as sudo. A tail left without any file operand would block
// on stdin, so that command is dropped entirely. Commands that are not
// tails are returned unchanged.
func stripTunnelLog(fragment string) string {
	var kept []string
	changed := false
	for _, command := range strings.Split(fragment, ";") {
		stripped, ok := stripTailCommand(command)
		if !ok {
			kept = append(kept, command)
			continue
		}
		changed = true
		if stripped != "" {
			kept = append(kept, stripped)
		}
	}
	if !changed {
		return fragment
	}

	var out []string
	for _, command := range kept {
		if command = strings.TrimSpace(command); command != "" {
			out = append(out, command)
		}
	}
	return strings.Join(out, fragmentSeparator)
}

// stripTailCommand reports false when command is not a tail reading
// TunnelLogPath.
func stripTailCommand(command string) (string, bool) {
	tokens := strings.Fields(command)
	i := 0
	for i < len(tokens) && tailWrappers[tokens[i]] {
		i++
		// wrapper options, e.g. sudo -E
		for i < len(tokens) && strings.HasPrefix(tokens[i], "-") {
			i++
		}
	}
	if i >= len(tokens) || tokens[i] != "tail" {
		return command, false
	}

	kept := slices.Clone(tokens[:i+1])
	removed := false
	for _, tok := range tokens[i+1:] {
		if tok == TunnelLogPath {
			removed = true
			continue
		}
		kept = append(kept, tok)
	}
	if !removed {
		return command, false
	}

	if !hasTailOperand(kept[i+1:]) {
		return "", true
	}
	return strings.Join(kept, " "), true
}

func hasTailOperand(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return true
		}
		if tailValueFlags[arg] {
			i++
		}
	}
	return false
}
