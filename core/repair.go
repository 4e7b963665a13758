package core

import (
	"regexp"
	"strings"
)

// GenericCloseMarker closes documents whose opening marker cannot be
// detected.
const GenericCloseMarker = "@enduml"

var closeMarkerRe = regexp.MustCompile(`@end\w*$`)

// RepairStreamingSource makes syntactically incomplete streamed input
// renderable: if the trimmed text does not already end with a closing
// marker, one is synthesized by pairing the detected opening marker
// ("@startsequence" pairs with "@endsequence"), falling back to the
// generic closing marker when no opener is found.
func RepairStreamingSource(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	if closeMarkerRe.MatchString(trimmed) {
		return text
	}
	if m := openMarkerRe.FindStringSubmatch(trimmed); m != nil {
		return trimmed + "\n@end" + m[1]
	}
	return trimmed + "\n" + GenericCloseMarker
}
