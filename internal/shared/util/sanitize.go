package util

import (
	"path"
	"strings"
	"unicode"
)

const maxFileNameRunes = 255

// SanitizeFileName reduces a client-supplied file name to a safe base name for
// logs and responses. Empty or dot-only names become fallback.
func SanitizeFileName(name, fallback string) string {
	s := strings.ReplaceAll(name, "\\", "/")
	s = path.Base(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." || s == "/" {
		return fallback
	}
	if r := []rune(s); len(r) > maxFileNameRunes {
		s = string(r[:maxFileNameRunes])
	}
	return s
}
