package core

import (
	"regexp"
	"strings"
)

// DiagramTypeUnknown is reported when no opening marker is present.
const DiagramTypeUnknown = "unknown"

var openMarkerRe = regexp.MustCompile(`(?m)^\s*@start(\w+)`)

// DetectDiagramType derives the diagram type tag from the document's
// opening marker, e.g. "@startsequence" yields "sequence". The generic
// "@startuml" yields "uml".
func DetectDiagramType(text string) string {
	m := openMarkerRe.FindStringSubmatch(text)
	if m == nil {
		return DiagramTypeUnknown
	}
	return strings.ToLower(m[1])
}
