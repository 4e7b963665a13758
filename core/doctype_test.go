package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDiagramType(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"sequence", "@startsequence\nAlice -> Bob\n@endsequence", "sequence"},
		{"generic uml", "@startuml\nA -> B\n@enduml", "uml"},
		{"mindmap with leading blank lines", "\n\n  @startmindmap\n* root", "mindmap"},
		{"no marker", "Alice -> Bob", "unknown"},
		{"empty", "", "unknown"},
		{"marker mid-line is ignored", "note @startuml is literal here", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectDiagramType(tc.text))
		})
	}
}

func TestRepairStreamingSource(t *testing.T) {
	t.Run("pairs close marker with detected opener", func(t *testing.T) {
		got := RepairStreamingSource("@startsequence\nAlice -> Bob")
		assert.Equal(t, "@startsequence\nAlice -> Bob\n@endsequence", got)
	})

	t.Run("generic close when no opener found", func(t *testing.T) {
		got := RepairStreamingSource("Alice -> Bob")
		assert.Equal(t, "Alice -> Bob\n@enduml", got)
	})

	t.Run("already closed input is untouched", func(t *testing.T) {
		src := "@startsequence\nAlice -> Bob\n@endsequence"
		assert.Equal(t, src, RepairStreamingSource(src))
	})

	t.Run("trailing whitespace still counts as closed", func(t *testing.T) {
		src := "@startuml\nA -> B\n@enduml\n  "
		assert.Equal(t, src, RepairStreamingSource(src))
	})

	t.Run("empty input is untouched", func(t *testing.T) {
		assert.Equal(t, "", RepairStreamingSource(""))
	})
}
