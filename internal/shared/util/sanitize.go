package util

import (
	"errors"
	"strings"
)

const maxFileNameLen = 160

// SanitizeFileName normalizes an uploaded document name into a storage-safe
// form. Traversal sequences are rejected, path separators become underscores,
// and control characters are stripped.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", errors.New("invalid file name")
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if runes := []rune(s); len(runes) > maxFileNameLen {
		s = string(runes[:maxFileNameLen])
	}
	return s, nil
}
