package book

import (
	"regexp"
	"unicode/utf8"
)

// maxNameBytes is the longest file name accepted by common file systems.
const maxNameBytes = 255

const replacement = "_"

var (
	illegalRe         = regexp.MustCompile(`[/?<>\\:*|"]`)
	controlRe         = regexp.MustCompile(`[\x{00}-\x{1f}\x{80}-\x{9f}]`)
	reservedRe        = regexp.MustCompile(`^\.+$`)
	windowsReservedRe = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
	trailingRe        = regexp.MustCompile(`[. ]+$`)
)

// Sanitize makes name usable as a file name on Windows, macOS and Linux.
// Offending characters and reserved names are replaced with "_" and the
// result is cut to 255 bytes. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(name string) string {
	return sanitize(name, maxNameBytes)
}

// sanitize is Sanitize with a byte limit below maxNameBytes, leaving room
// for an extension.
func sanitize(name string, limit int) string {
	name = illegalRe.ReplaceAllLiteralString(name, replacement)
	name = controlRe.ReplaceAllLiteralString(name, replacement)
	name = reservedRe.ReplaceAllLiteralString(name, replacement)
	name = windowsReservedRe.ReplaceAllLiteralString(name, replacement)
	name = truncate(name, limit)
	// Truncation may expose trailing dots or spaces.
	return trailingRe.ReplaceAllLiteralString(name, replacement)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
