package core

import (
	"fmt"
	"strings"
	"sync"
)

// EntryKind tags a change log entry.
type EntryKind int

const (
	// EntryEdit records a manual edit to the diagram source.
	EntryEdit EntryKind = iota
	// EntryTypeChange records a change of the detected diagram type.
	EntryTypeChange
)

// Entry is one coalesced change record.
type Entry struct {
	Kind    EntryKind
	Summary string // EntryEdit only
	OldType string // EntryTypeChange only
	NewType string // EntryTypeChange only
}

// ChangeLog coalesces a sequence of local edit events into a compact,
// human-readable delta for agent consumption. Adjacent entries of the
// same kind collapse: a run of edits keeps only the latest summary, and
// a chain of type flips keeps the original old type paired with the
// final new type.
type ChangeLog struct {
	mu      sync.Mutex
	entries []Entry
}

// NewChangeLog creates an empty change log.
func NewChangeLog() *ChangeLog {
	return &ChangeLog{}
}

// RecordEdit appends an edit entry, replacing a trailing edit entry.
func (l *ChangeLog) RecordEdit(summary string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := len(l.entries); n > 0 && l.entries[n-1].Kind == EntryEdit {
		l.entries[n-1].Summary = summary
		return
	}
	l.entries = append(l.entries, Entry{Kind: EntryEdit, Summary: summary})
}

// RecordTypeChange appends a type-change entry. A trailing type-change
// entry is replaced, preserving its original old type so a chain of
// flips reads as one "from original to final" record.
func (l *ChangeLog) RecordTypeChange(oldType, newType string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := len(l.entries); n > 0 && l.entries[n-1].Kind == EntryTypeChange {
		l.entries[n-1].NewType = newType
		return
	}
	l.entries = append(l.entries, Entry{Kind: EntryTypeChange, OldType: oldType, NewType: newType})
}

// Serialize renders the log as a numbered list. An empty log serializes
// to the empty string.
func (l *ChangeLog) Serialize() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range l.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.Kind {
		case EntryEdit:
			fmt.Fprintf(&b, "%d. Edited diagram code: %s", i+1, e.Summary)
		case EntryTypeChange:
			fmt.Fprintf(&b, "%d. Changed diagram type from %s to %s", i+1, e.OldType, e.NewType)
		}
	}
	return b.String()
}

// Clear empties the log.
func (l *ChangeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Count returns the number of coalesced entries.
func (l *ChangeLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// IsEmpty reports whether the log has no entries.
func (l *ChangeLog) IsEmpty() bool {
	return l.Count() == 0
}
