package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/living-cosmos/render"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.RGB
		wantErr bool
	}{
		{"rgb(100, 149, 237)", render.RGB{R: 100, G: 149, B: 237}, false},
		{" rgb(0,0,0) ", render.RGB{}, false},
		{"#FFD700", render.RGB{R: 255, G: 215, B: 0}, false},
		{"rgb(300, 0, 0)", render.RGB{}, true},
		{"rgb(1, 2)", render.RGB{}, true},
		{"hsl(0, 0%, 0%)", render.RGB{}, true},
		{"rgb(1, 2, 3", render.RGB{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, p := range Palette {
		c, err := ParseColor(p)
		require.NoError(t, err)
		assert.Equal(t, p, FormatColor(c))
	}
}

func TestFallback(t *testing.T) {
	list := Fallback()
	require.Len(t, list, 15)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "アルビレオ (Albireo)", list[0].Title)
	assert.Equal(t, "明けない夜のリリィ", list[14].Title)
	for _, s := range list {
		assert.True(t, s.Valid())
		assert.Equal(t, OriginalProfileURL, s.OriginalURL)
	}

	// Callers may mutate their copy freely
	list[0].Title = "changed"
	assert.Equal(t, "アルビレオ (Albireo)", Fallback()[0].Title)
}

func TestSongRGBFallsBackToWhite(t *testing.T) {
	s := &Song{Color: "nonsense"}
	assert.Equal(t, render.RGBWhite, s.RGB())
	var nilSong *Song
	assert.Equal(t, render.RGBWhite, nilSong.RGB())
}

func TestPaletteColorWraps(t *testing.T) {
	assert.Equal(t, Palette[0], PaletteColor(20))
	assert.Equal(t, Palette[3], PaletteColor(23))
}
