package gallery

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type Entries []Entry

// Find returns the entry to launch, looked up by id first and then by
// interactive_type. Several entries may share a type (platform variants),
// so an id match anywhere in the list always wins over a type match.
// The returned pointer aliases the slice element.
func Find(entries []Entry, id, interactiveType string) *Entry {
	if len(entries) == 0 {
		return nil
	}
	if id != "" {
		for i := range entries {
			if entries[i].ID == id {
				return &entries[i]
			}
		}
	}
	if interactiveType != "" {
		for i := range entries {
			if entries[i].InteractiveType == interactiveType {
				return &entries[i]
			}
		}
	}
	return nil
}

func (e Entries) Find(id, interactiveType string) *Entry {
	return Find(e, id, interactiveType)
}

func (e Entries) Search(term string) Entries {
	var filtered Entries
	term = strings.ToLower(term)
	for _, entry := range e {
		if fuzzy.Match(term, strings.ToLower(entry.ID)) ||
			fuzzy.Match(term, strings.ToLower(entry.Name)) ||
			strings.Contains(strings.ToLower(entry.InteractiveType), term) ||
			strings.Contains(strings.ToLower(entry.Description), term) ||
			strings.Contains(strings.ToLower(strings.Join(entry.Tags, ",")), term) {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}
