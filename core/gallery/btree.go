package gallery

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/btree"
	"github.com/mudler/xlog"
	"gopkg.in/yaml.v3"
)

// Tree keeps entries ordered by id. Inserting an id that is already present
// replaces the earlier entry.
type Tree struct {
	*btree.BTreeG[Entry]
}

func lessByID(a, b Entry) bool {
	return a.ID < b.ID
}

func NewTree() *Tree {
	return &Tree{btree.NewG[Entry](2, lessByID)}
}

// Entries returns the tree contents in id order.
func (t *Tree) Entries() Entries {
	entries := make(Entries, 0, t.Len())
	t.Ascend(func(item Entry) bool {
		entries = append(entries, item)
		return true
	})
	return entries
}

// processYAMLFile takes a single file path and adds its entries to the existing tree.
func processYAMLFile(filePath string, tree *Tree) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", filePath, err)
	}

	if entries, ok := decodeJSON(data, true); ok {
		insertEntries(tree, filePath, entries)
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))

	// Stream documents from the file
	for {
		var doc yaml.Node
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", filePath, err)
		}
		if len(doc.Content) == 0 {
			continue
		}

		entries, err := decodeDocument(doc.Content[0], true)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", filePath, err)
		}
		insertEntries(tree, filePath, entries)
	}
	return nil
}

func insertEntries(tree *Tree, filePath string, entries Entries) {
	for _, entry := range entries {
		if entry.ID == "" {
			xlog.Warn("skipping interactive gallery entry without id", "file", filePath, "interactiveType", entry.InteractiveType)
			continue
		}
		tree.ReplaceOrInsert(entry)
	}
}

// LoadDirectory reads every .yaml/.yml/.json file of dirPath, in name order,
// into one gallery sorted by id. Files may hold several documents, each a
// single entry, a list or an "interactive" wrapper.
func LoadDirectory(dirPath string) (Entries, error) {
	tree := NewTree()

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("could not read directory: %w", err)
	}

	for _, file := range files {
		// Skip subdirectories and files that are not gallery documents.
		if file.IsDir() {
			continue
		}
		fileName := file.Name()
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		if err := processYAMLFile(filepath.Join(dirPath, fileName), tree); err != nil {
			return nil, err
		}
	}

	xlog.Debug("interactive gallery directory loaded", "dir", dirPath, "entries", tree.Len())
	return tree.Entries(), nil
}
