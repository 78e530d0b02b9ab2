package metrics

import (
	"strings"
	"unicode/utf8"
)

// Display-layer compliance rule for region labels: one territory's flag
// glyph and name variants are rewritten to neutral forms in the rendered
// string. The Node record's region field itself is never altered.
const (
	restrictedFlag = "\U0001F1F9\U0001F1FC" // 🇹🇼
	neutralFlag    = "\U0001F1FA\U0001F1F3" // 🇺🇳
	neutralLabel   = "UN"
)

// restrictedNames are matched case-insensitively.
var restrictedNames = []string{"taiwan", "台湾", "臺灣"}

// NormalizeRegion rewrites the restricted territory's flag glyph and
// name matches inside label to their neutral forms, leaving every other
// character untouched.
func NormalizeRegion(label string) string {
	out := strings.ReplaceAll(label, restrictedFlag, neutralFlag)
	for _, name := range restrictedNames {
		out = replaceFold(out, name, neutralLabel)
	}
	return out
}

// replaceFold replaces every case-insensitive occurrence of old in s
// with new, preserving the surrounding text byte-for-byte. Offsets are
// tracked in s itself, never in a case-folded copy, since folding can
// change a rune's byte width.
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if n := foldMatchLen(s[i:], old); n > 0 {
			b.WriteString(new)
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

// foldMatchLen returns the byte length of the prefix of s that matches
// old under Unicode case folding, or 0 when there is no match.
func foldMatchLen(s, old string) int {
	n := 0
	for range old {
		_, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return 0
		}
		n += size
	}
	if strings.EqualFold(s[:n], old) {
		return n
	}
	return 0
}
