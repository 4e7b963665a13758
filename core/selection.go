package core

import (
	"fmt"
	"strings"
)

// SelectedElement is one addressable element of the rendered diagram,
// identified by its stable ID and carrying a human-readable label
// derived from the rendered output (falls back to the ID).
type SelectedElement struct {
	ID    string
	Label string
}

// Selection is an ordered set of selected elements. Insertion order is
// preserved for stable display; membership is by ID.
type Selection []SelectedElement

// Has reports whether id is part of the selection.
func (sel Selection) Has(id string) bool {
	for _, e := range sel {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Add returns the selection with e appended, unless its ID is already a
// member.
func (sel Selection) Add(e SelectedElement) Selection {
	if sel.Has(e.ID) {
		return sel
	}
	return append(sel, e)
}

// Remove returns the selection without the element identified by id.
func (sel Selection) Remove(id string) Selection {
	out := sel[:0]
	for _, e := range sel {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Toggle flips membership of e: added if absent, removed if present.
func (sel Selection) Toggle(e SelectedElement) Selection {
	if sel.Has(e.ID) {
		return sel.Remove(e.ID)
	}
	return sel.Add(e)
}

// Describe renders the selection as a bulleted list for agent messages.
// Elements with a label distinct from their ID show both.
func (sel Selection) Describe() string {
	if len(sel) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range sel {
		if e.Label != "" && e.Label != e.ID {
			fmt.Fprintf(&b, "- %s (%s)\n", e.Label, e.ID)
		} else {
			fmt.Fprintf(&b, "- %s\n", e.ID)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
