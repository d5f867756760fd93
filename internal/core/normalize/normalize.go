// Package normalize cleans free-text provenance fields out of a health
// export (source name, source version, device strings) before they are
// persisted or shown in the dashboard.
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Strip ASCII/C1 control characters
// 3 Unicode NFC normalization
// 4 Collapse whitespace runs to single spaces and trim
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Provenance returns the cleaned form of s following the pipeline above.
// Empty and already-clean inputs are returned unchanged
func Provenance(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	s = stripControls(s)
	s = norm.NFC.String(s)
	return collapseSpaces(s)
}

// stripControls drops ASCII controls, DEL and C1 controls U+0080..U+009F
func stripControls(s string) string {
	clean := true
	for _, r := range s {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
