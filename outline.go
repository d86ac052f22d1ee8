package docmcp

import (
	"strconv"
	"strings"
	"unicode"
)

// Heading is an ATX heading in a Markdown document.
type Heading struct {
	Level  int    `json:"level" yaml:"level"`
	Title  string `json:"title" yaml:"title"`
	Anchor string `json:"anchor" yaml:"anchor"`
}

// Outline returns the headings of a Markdown document in order, skipping
// fenced code blocks. Anchors are URL-safe and unique within the document;
// repeats get a numeric suffix.
func Outline(markdown string) []Heading {
	var headings []Heading
	seen := make(map[string]int)
	fence := ""

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}

		level, title, ok := parseHeading(line)
		if !ok {
			continue
		}
		anchor := Anchor(title)
		if n, ok := seen[anchor]; ok {
			seen[anchor] = n + 1
			anchor += "-" + strconv.Itoa(n)
		} else {
			seen[anchor] = 1
		}
		headings = append(headings, Heading{Level: level, Title: title, Anchor: anchor})
	}
	return headings
}

func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || (line[level] != ' ' && line[level] != '\t') {
		return 0, "", false
	}
	title := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[level:]), "#"))
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}

// Anchor converts a heading title into a lower-case, hyphen-separated
// fragment identifier.
func Anchor(title string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hyphen = false
		case (unicode.IsSpace(r) || r == '-' || r == '_') && !hyphen && sb.Len() > 0:
			sb.WriteRune('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
