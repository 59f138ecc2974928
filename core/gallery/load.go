package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mudler/xlog"
	"github.com/transformerlab/interactive/pkg/downloader"
	"gopkg.in/yaml.v3"
)

// galleryDocument is the wrapped form some galleries ship in.
type galleryDocument struct {
	Interactive Entries `json:"interactive" yaml:"interactive"`
}

// Load fetches an interactive gallery from a path, file:// URL (rooted in
// basePath), http(s) URL or github: shorthand. JSON and YAML are both accepted.
// A local directory is read with LoadDirectory.
func Load(uri, basePath string) (Entries, error) {
	if info, err := os.Stat(uri); err == nil && info.IsDir() {
		return LoadDirectory(uri)
	}

	var entries Entries
	err := downloader.URI(uri).DownloadWithCallback(basePath, func(url string, d []byte) error {
		var err error
		entries, err = Decode(d)
		return err
	})
	if err != nil {
		xlog.Error("failed to load interactive gallery", "error", err, "uri", uri)
		return nil, err
	}
	xlog.Debug("interactive gallery loaded", "uri", uri, "entries", len(entries))
	return entries, nil
}

func ReadFile(path string) (Entries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery file: %w", err)
	}
	return Decode(data)
}

// Decode parses a gallery document: either a bare list of entries or an
// object holding them under "interactive". JSON input goes through
// encoding/json first since YAML rejects some valid JSON escapes ("\/").
func Decode(data []byte) (Entries, error) {
	if entries, ok := decodeJSON(data, false); ok {
		return entries, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gallery: %w", err)
	}
	if len(root.Content) == 0 {
		return Entries{}, nil
	}

	return decodeDocument(root.Content[0], false)
}

// decodeJSON reports false when data is not strict JSON, leaving it to the
// YAML decoder.
func decodeJSON(data []byte, single bool) (Entries, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}

	switch trimmed[0] {
	case '[':
		var entries Entries
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, false
		}
		return entries, true
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return nil, false
		}
		if _, wrapped := keys["interactive"]; single && !wrapped {
			var entry Entry
			if err := json.Unmarshal(trimmed, &entry); err != nil {
				return nil, false
			}
			return Entries{entry}, true
		}
		var doc galleryDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, false
		}
		return doc.Interactive, true
	}
	return nil, false
}

// decodeDocument decodes one YAML document. With single set, a mapping that
// is not an "interactive" wrapper is read as one entry.
func decodeDocument(doc *yaml.Node, single bool) (Entries, error) {
	switch doc.Kind {
	case yaml.SequenceNode:
		var entries Entries
		if err := doc.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to decode gallery entries: %w", err)
		}
		return entries, nil
	case yaml.MappingNode:
		if single && !hasKey(doc, "interactive") {
			var entry Entry
			if err := doc.Decode(&entry); err != nil {
				return nil, fmt.Errorf("failed to decode gallery entry: %w", err)
			}
			return Entries{entry}, nil
		}
		var wrapped galleryDocument
		if err := doc.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode gallery entries: %w", err)
		}
		return wrapped.Interactive, nil
	}

	return nil, fmt.Errorf("unexpected gallery document kind %d", doc.Kind)
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
