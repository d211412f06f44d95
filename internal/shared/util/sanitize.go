package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for names that cannot be stored safely.
var ErrInvalidFileName = errors.New("invalid file name")

const maxFileNameLen = 200

// SanitizeFileName flattens an uploaded spreadsheet name into a single object
// key segment. Separators and control characters become '_'; traversal and
// hidden names are rejected. Over-long names are cut before the extension so
// the reader can still pick a decoder.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" || strings.HasPrefix(s, ".") {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		ext := filepath.Ext(s)
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	return s, nil
}
