package gallery

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Entry is one launchable interactive tool as described by an interactive
// gallery. Every field is optional; validation happens upstream.
type Entry struct {
	ID              string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	InteractiveType string   `json:"interactive_type,omitempty" yaml:"interactive_type,omitempty"`

	// Command and Setup are the legacy single-command fields.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Setup   string `json:"setup,omitempty" yaml:"setup,omitempty"`

	// Commands is the superseded per-environment, per-accelerator map. It is
	// kept raw because values may be strings or {command, setup} objects.
	Commands map[string]any `json:"commands,omitempty" yaml:"commands,omitempty"`

	Logic *LogicBlock `json:"logic,omitempty" yaml:"logic,omitempty"`
}

// LogicBlock is the current canonical command schema. Fragments that are
// not strings in the source document decode as empty.
type LogicBlock struct {
	Core     string `json:"core" yaml:"core"`
	Tunnel   string `json:"tunnel,omitempty" yaml:"tunnel,omitempty"`
	TailLogs string `json:"tail_logs,omitempty" yaml:"tail_logs,omitempty"`
}

func (l *LogicBlock) fields() map[string]*string {
	return map[string]*string{
		"core":      &l.Core,
		"tunnel":    &l.Tunnel,
		"tail_logs": &l.TailLogs,
	}
}

func (l *LogicBlock) UnmarshalYAML(value *yaml.Node) error {
	*l = LogicBlock{}
	if value.Kind != yaml.MappingNode {
		return nil
	}

	fields := l.fields()
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		dst, ok := fields[key.Value]
		if !ok || val.Kind != yaml.ScalarNode || val.ShortTag() != "!!str" {
			continue
		}
		*dst = val.Value
	}
	return nil
}

func (l *LogicBlock) UnmarshalJSON(data []byte) error {
	*l = LogicBlock{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// not an object: treat as an empty block
		return nil
	}

	for key, dst := range l.fields() {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			*dst = s
		}
	}
	return nil
}
