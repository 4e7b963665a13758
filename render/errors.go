package render

import "strings"

// errorPhrases are substrings the backend embeds into otherwise-valid
// SVG when the source fails to parse. Matching is case-sensitive per
// phrase; both casings of "syntax error" appear across backends.
var errorPhrases = []string{
	"Syntax Error",
	"syntax error",
	"Syntax error",
	"Cannot find",
	"No valid diagram",
	"deprecated",
}

// DetectErrorOutput reports whether a rendered payload is the backend's
// embedded diagnostic rather than a real diagram. The returned message
// is the line containing the matched phrase, suitable for surfacing to
// a repair agent. Satisfies core.ErrorDetector.
func DetectErrorOutput(output []byte) (string, bool) {
	text := string(output)
	for _, phrase := range errorPhrases {
		idx := strings.Index(text, phrase)
		if idx < 0 {
			continue
		}
		return surroundingLine(text, idx), true
	}
	return "", false
}

// surroundingLine pulls the text line containing byte offset idx, with
// any markup tags stripped.
func surroundingLine(text string, idx int) string {
	start := strings.LastIndexByte(text[:idx], '\n') + 1
	end := strings.IndexByte(text[idx:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += idx
	}
	return strings.TrimSpace(stripTags(text[start:end]))
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
