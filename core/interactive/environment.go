// Package interactive resolves the shell command that starts an interactive
// session (notebook, inference server) from a gallery entry and the target
// environment.
//
// Resolution is pure: the same entry and environment always produce the same
// result, and nothing here touches the filesystem or the network.
package interactive

// Environment is where the session runs.
type Environment string

const (
	EnvironmentLocal  Environment = "local"
	EnvironmentRemote Environment = "remote"
)

// ParseEnvironment fails open: anything other than exactly "local" is remote.
func ParseEnvironment(s string) Environment {
	if s == string(EnvironmentLocal) {
		return EnvironmentLocal
	}
	return EnvironmentRemote
}

func (e Environment) String() string {
	return string(e)
}
