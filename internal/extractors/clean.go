package extractors

import (
	"regexp"
	"strings"
)

var (
	cidArtifacts  = regexp.MustCompile(`\(cid:\d+\)`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text: converter artifacts such as
// (cid:NNN) markers and form feeds are removed, runs of whitespace are
// collapsed, and blank-heavy regions are reduced to paragraph breaks.
func CleanText(text string) string {
	text = cidArtifacts.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	text = multiSpaces.ReplaceAllString(text, " ")
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
