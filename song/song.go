// Package song holds the song record shared by the scene and the HTTP glue
package song

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/living-cosmos/render"
)

// Song is the entity payload: everything the detail surface needs to show and play a track
type Song struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	YouTubeURL  string `json:"youtubeUrl,omitempty"`
	OriginalURL string `json:"tiktokUrl,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// RGB resolves the display color, white if the color string is unusable
func (s *Song) RGB() render.RGB {
	if s == nil {
		return render.RGBWhite
	}
	c, err := ParseColor(s.Color)
	if err != nil {
		return render.RGBWhite
	}
	return c
}

// Valid reports whether the record carries the fields required for display
func (s *Song) Valid() bool {
	return s != nil && s.ID != "" && s.Title != ""
}

// ParseColor accepts "rgb(r, g, b)" and "#rrggbb" forms
func ParseColor(s string) (render.RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return render.RGB{}, fmt.Errorf("parse hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return render.RGB{R: r, G: g, B: b}, nil
	}

	inner, ok := strings.CutPrefix(s, "rgb(")
	if !ok {
		return render.RGB{}, fmt.Errorf("unsupported color %q", s)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return render.RGB{}, fmt.Errorf("unterminated color %q", s)
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return render.RGB{}, fmt.Errorf("color %q: want 3 channels, got %d", s, len(parts))
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.RGB{}, fmt.Errorf("color %q channel %d: %w", s, i, err)
		}
		ch[i] = uint8(v)
	}
	return render.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// FormatColor renders the css rgb() form used on the wire
func FormatColor(c render.RGB) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Palette is assigned to feed entries by index
var Palette = []string{
	"rgb(100, 149, 237)",
	"rgb(144, 238, 144)",
	"rgb(255, 160, 122)",
	"rgb(255, 182, 193)",
	"rgb(135, 206, 250)",
	"rgb(255, 255, 255)",
	"rgb(59, 130, 246)",
	"rgb(167, 139, 250)",
	"rgb(255, 215, 0)",
	"rgb(196, 181, 253)",
	"rgb(251, 146, 60)",
	"rgb(239, 68, 68)",
	"rgb(147, 197, 253)",
	"rgb(134, 239, 172)",
	"rgb(251, 207, 232)",
	"rgb(253, 224, 71)",
	"rgb(165, 180, 252)",
	"rgb(252, 165, 165)",
	"rgb(216, 180, 254)",
	"rgb(134, 239, 172)",
}

func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
