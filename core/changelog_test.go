package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeLogEditCoalescing(t *testing.T) {
	log := NewChangeLog()
	log.RecordEdit("a")
	log.RecordEdit("b")
	log.RecordEdit("c")

	assert.Equal(t, 1, log.Count(), "a run of edits collapses to one entry")
	assert.Equal(t, "1. Edited diagram code: c", log.Serialize())
}

func TestChangeLogTypeChangeCoalescing(t *testing.T) {
	log := NewChangeLog()
	log.RecordTypeChange("sequence", "class")
	log.RecordTypeChange("class", "state")

	assert.Equal(t, "1. Changed diagram type from sequence to state", log.Serialize())
}

func TestChangeLogMixedEntries(t *testing.T) {
	log := NewChangeLog()
	log.RecordEdit("manual code edit")
	log.RecordTypeChange("sequence", "class")

	assert.Equal(t, 2, log.Count())
	assert.Equal(t,
		"1. Edited diagram code: manual code edit\n2. Changed diagram type from sequence to class",
		log.Serialize())
}

func TestChangeLogAlternatingKindsDoNotCoalesce(t *testing.T) {
	log := NewChangeLog()
	log.RecordEdit("a")
	log.RecordTypeChange("sequence", "class")
	log.RecordEdit("b")

	assert.Equal(t, 3, log.Count())
}

func TestChangeLogEmpty(t *testing.T) {
	log := NewChangeLog()
	assert.True(t, log.IsEmpty())
	assert.Equal(t, "", log.Serialize(), "empty log serializes to empty string")

	log.RecordEdit("x")
	log.Clear()
	assert.True(t, log.IsEmpty())
	assert.Equal(t, "", log.Serialize())
}
