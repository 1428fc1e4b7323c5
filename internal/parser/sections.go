package parser

import (
	"strings"
	"unicode"
)

const blankLine = "\n\n"

// ExtractSection returns the text between the first occurrence of start and the
// first occurrence of end after it, or up to the end of the document when end is
// absent. The result is trimmed and a single leading colon is dropped. An absent
// start marker yields "".
func ExtractSection(document, start, end string) string {
	i := strings.Index(document, start)
	if i < 0 {
		return ""
	}
	rest := document[i+len(start):]
	if j := strings.Index(rest, end); j >= 0 {
		rest = rest[:j]
	}
	section := strings.TrimSpace(rest)
	if strings.HasPrefix(section, ":") {
		section = strings.TrimLeftFunc(section[1:], unicode.IsSpace)
	}
	return section
}

// ExtractListItems returns the hyphen-prefixed lines of the block that starts at
// marker, in order, with the hyphen stripped. Other lines are ignored.
func ExtractListItems(document, marker string) []string {
	items := []string{}
	for _, line := range strings.Split(ExtractSection(document, marker, blankLine), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		items = append(items, strings.TrimSpace(line[1:]))
	}
	return items
}

// ExtractKeywords flattens "Group: a, b" lines of the block that starts at marker
// into a single list. Lines without a colon contribute nothing.
func ExtractKeywords(document, marker string) []string {
	keywords := []string{}
	for _, line := range strings.Split(ExtractSection(document, marker, blankLine), "\n") {
		_, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		for _, token := range strings.Split(rest, ",") {
			if token = strings.TrimSpace(token); token != "" {
				keywords = append(keywords, token)
			}
		}
	}
	return keywords
}
