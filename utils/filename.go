package utils

import (
	"regexp"
	"strings"
)

var repeatedUnderscores = regexp.MustCompile(`_+`)

const maxFilenameLength = 100

// CleanStringForFilename keeps ASCII letters, digits, dots and underscores.
// Spaces and dashes become underscores; everything else is dropped.
func CleanStringForFilename(input string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		case r == '.':
			return '.'
		default:
			return -1
		}
	}, input)

	clean = repeatedUnderscores.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")
	if clean == "" {
		clean = "file"
	}
	if len(clean) > maxFilenameLength {
		clean = clean[:maxFilenameLength]
	}
	return clean
}
