package services

import "strings"

const (
	// summaryMaxLength is the rune limit before the ellipsis marker.
	summaryMaxLength = 200

	// summaryLeadLines is how many body lines are used when no problem section exists.
	summaryLeadLines = 3

	// NoSummary is stored when a document yields no summary text.
	NoSummary = "No summary available"
)

// ExtractSummary derives the stored summary from markdown content.
//
// The body of the first heading mentioning "problem" wins; otherwise the
// first three non-empty, non-heading lines are used.
func ExtractSummary(content string) string {
	lines := strings.Split(content, "\n")

	summary := strings.Join(problemSection(lines), " ")
	if summary == "" {
		summary = strings.Join(leadLines(lines, summaryLeadLines), " ")
	}

	summary = truncateRunes(summary, summaryMaxLength, "...")
	if summary == "" {
		return NoSummary
	}
	return summary
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, "#")
}

func problemSection(lines []string) []string {
	var body []string
	inSection := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if isHeading(line) {
			if inSection {
				break
			}
			if strings.Contains(strings.ToLower(line), "problem") {
				inSection = true
			}
			continue
		}
		if inSection && line != "" {
			body = append(body, line)
		}
	}
	return body
}

func leadLines(lines []string, n int) []string {
	var out []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || isHeading(line) {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

// truncateRunes cuts s to max runes, appending marker when it was cut.
func truncateRunes(s string, max int, marker string) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + marker
}
