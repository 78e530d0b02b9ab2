package metrics

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRegion(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{
			name:  "empty string",
			label: "",
			want:  "",
		},
		{
			name:  "unrelated label untouched",
			label: "🇩🇪 Frankfurt",
			want:  "🇩🇪 Frankfurt",
		},
		{
			name:  "flag glyph rewritten",
			label: "🇹🇼 Taipei",
			want:  "🇺🇳 Taipei",
		},
		{
			name:  "english name rewritten",
			label: "Taiwan DC-1",
			want:  "UN DC-1",
		},
		{
			name:  "case-insensitive name match",
			label: "TAIWAN / taiwan",
			want:  "UN / UN",
		},
		{
			name:  "simplified spelling rewritten",
			label: "台湾机房",
			want:  "UN机房",
		},
		{
			name:  "traditional spelling rewritten",
			label: "臺灣節點",
			want:  "UN節點",
		},
		{
			name:  "flag and name together",
			label: "🇹🇼 Taiwan",
			want:  "🇺🇳 UN",
		},
		{
			// Lowercasing U+0130 grows its byte width; surrounding text
			// must come through untouched regardless.
			name:  "width-changing rune before match",
			label: "İ taiwan",
			want:  "İ UN",
		},
		{
			name:  "repeated width-changing runes",
			label: "İİİİİİ taiwan",
			want:  "İİİİİİ UN",
		},
		{
			name:  "width-changing rune without match",
			label: "İstanbul",
			want:  "İstanbul",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRegion(tt.label))
		})
	}
}

func TestNormalizeRegion_OutputStaysValidUTF8(t *testing.T) {
	labels := []string{
		"İİİİİİ taiwan",
		"ßß 台湾 ßß",
		"🇹🇼臺灣",
		"İ TaIwAn İ",
	}
	for _, label := range labels {
		out := NormalizeRegion(label)
		assert.True(t, utf8.ValidString(out), "output for %q is not valid UTF-8: %q", label, out)
	}
}
