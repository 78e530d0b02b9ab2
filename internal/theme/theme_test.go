package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdeck/fleetdeck/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ID
		wantErr bool
	}{
		{
			name: "default",
			raw:  "default",
			want: Default,
		},
		{
			name: "nord",
			raw:  "nord",
			want: Nord,
		},
		{
			name: "tokyo-night",
			raw:  "tokyo-night",
			want: TokyoNight,
		},
		{
			name:    "unknown rejected",
			raw:     "vaporwave",
			want:    Default,
			wantErr: true,
		},
		{
			name:    "empty rejected",
			raw:     "",
			want:    Default,
			wantErr: true,
		},
		{
			name:    "case sensitive",
			raw:     "Nord",
			want:    Default,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrTheme))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAll_EveryIDHasPalette(t *testing.T) {
	for _, id := range All() {
		p, ok := palettes[id]
		assert.True(t, ok, "theme %s has no palette", id)
		assert.NotEmpty(t, p.TextPrimary, "theme %s palette is incomplete", id)
		assert.NotEmpty(t, p.Critical, "theme %s palette is incomplete", id)
	}
}

func TestPaletteFor_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, PaletteFor(Default), PaletteFor(ID("no-such-theme")))
}
