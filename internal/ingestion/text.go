package ingestion

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`[ \t]+`)

// CleanText normalizes extracted text: LF line endings, single spaces
// within lines, at most one blank line between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = spaceRun.ReplaceAllString(line, " ")
		if line == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
