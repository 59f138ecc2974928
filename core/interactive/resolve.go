package interactive

import (
	"fmt"

	"github.com/transformerlab/interactive/core/gallery"
	"github.com/transformerlab/interactive/pkg/system"
)

// Result is the resolved command for one launch. A nil SetupOverride means
// the entry's own setup applies; otherwise it replaces that setup for this
// run only.
type Result struct {
	Command       string
	SetupOverride *string
}

// Empty reports whether there is nothing to run.
func (r Result) Empty() bool {
	return r.Command == ""
}

// Strategy is one schema shape the resolver understands. Resolve returns
// false when the shape is absent or yields no command.
type Strategy interface {
	Name() string
	Resolve(entry *gallery.Entry, env Environment) (Result, bool)
}

// LogicStrategy composes the canonical logic block.
type LogicStrategy struct{}

func (LogicStrategy) Name() string { return "logic" }

func (LogicStrategy) Resolve(entry *gallery.Entry, env Environment) (Result, bool) {
	command, ok := Compose(entry.Logic, entry.InteractiveType, env)
	if !ok || command == "" {
		return Result{}, false
	}
	return Result{Command: command}, true
}

// CommandStrategy uses the legacy top-level command. It never overrides setup.
type CommandStrategy struct{}

func (CommandStrategy) Name() string { return "command" }

func (CommandStrategy) Resolve(entry *gallery.Entry, _ Environment) (Result, bool) {
	if entry.Command == "" {
		return Result{}, false
	}
	return Result{Command: entry.Command}, true
}

// CommandsMapStrategy reads the superseded commands[environment][accelerator]
// map. Lookup order: the environment's accelerator key, the environment's
// default, then the remote accelerator key or remote default.
type CommandsMapStrategy struct {
	Accelerator           string
	SupportedAccelerators []string
}

func (CommandsMapStrategy) Name() string { return "commands" }

func (s CommandsMapStrategy) Resolve(entry *gallery.Entry, env Environment) (Result, bool) {
	if entry.Commands == nil {
		return Result{}, false
	}
	acc := string(system.NormalizeAccelerator(s.Accelerator, s.SupportedAccelerators, string(env)))
	defaultKey := string(system.AcceleratorDefault)

	if envMap, ok := entry.Commands[string(env)].(map[string]any); ok {
		for _, key := range []string{acc, defaultKey} {
			if r, ok := commandValue(envMap[key]); ok {
				return r, true
			}
		}
	}

	if remoteMap, ok := entry.Commands[string(EnvironmentRemote)].(map[string]any); ok {
		val := remoteMap[acc]
		if !truthy(val) {
			val = remoteMap[defaultKey]
		}
		if r, ok := commandValue(val); ok {
			return r, true
		}
	}

	return Result{}, false
}

// commandValue accepts either a plain command string or a
// {command, setup} object.
func commandValue(v any) (Result, bool) {
	switch val := v.(type) {
	case string:
		return Result{Command: val}, val != ""
	case map[string]any:
		cmd, ok := val["command"]
		if !ok || cmd == nil {
			return Result{}, false
		}
		r := Result{Command: fmt.Sprint(cmd)}
		if setup, ok := val["setup"].(string); ok {
			r.SetupOverride = &setup
		}
		return r, r.Command != ""
	}
	return Result{}, false
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	case bool:
		return val
	}
	return true
}

// Resolver tries its strategies in declared order; the first one producing
// a non-empty command wins.
type Resolver struct {
	strategies []Strategy
}

type ResolverOption func(*Resolver)

// WithStrategies replaces the strategy chain.
func WithStrategies(strategies ...Strategy) ResolverOption {
	return func(r *Resolver) {
		r.strategies = strategies
	}
}

// WithCommandsMap enables the superseded commands map for galleries that
// still ship it. It is tried after the logic block and before the legacy
// command.
func WithCommandsMap(accelerator string, supported []string) ResolverOption {
	return func(r *Resolver) {
		chain := make([]Strategy, 0, len(r.strategies)+1)
		inserted := false
		for _, s := range r.strategies {
			if _, isCommand := s.(CommandStrategy); isCommand && !inserted {
				chain = append(chain, CommandsMapStrategy{Accelerator: accelerator, SupportedAccelerators: supported})
				inserted = true
			}
			chain = append(chain, s)
		}
		if !inserted {
			chain = append(chain, CommandsMapStrategy{Accelerator: accelerator, SupportedAccelerators: supported})
		}
		r.strategies = chain
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		strategies: []Strategy{LogicStrategy{}, CommandStrategy{}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strategies returns the names of the chain, in order.
func (r *Resolver) Strategies() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}

func (r *Resolver) Resolve(entry *gallery.Entry, env Environment) Result {
	if entry == nil {
		return Result{}
	}
	for _, s := range r.strategies {
		if result, ok := s.Resolve(entry, env); ok {
			return result
		}
	}
	return Result{}
}

var canonicalResolver = NewResolver()

// Resolve uses the canonical chain: logic block, then legacy command. An
// empty Result means the entry has nothing to run.
func Resolve(entry *gallery.Entry, env Environment) Result {
	return canonicalResolver.Resolve(entry, env)
}
