package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	resp, err := Generate("Lemon")
	require.NoError(t, err)

	assert.Equal(t, "Lemon", resp.Query)
	require.Len(t, resp.Results, 5)
	assert.Equal(t, 5, resp.TotalResults)

	var kinds []Kind
	for _, r := range resp.Results {
		kinds = append(kinds, r.Type)
	}
	assert.Equal(t, []Kind{KindVideo, KindVideo, KindVideo, KindSheet, KindSheet}, kinds)

	assert.Equal(t, "https://www.youtube.com/results?search_query=Lemon+piano+tutorial", resp.Results[0].URL)
	assert.Equal(t, "https://www.youtube.com/results?search_query=Lemon+piano+cover", resp.Results[1].URL)
	assert.Equal(t, "https://www.youtube.com/results?search_query=Lemon+%E3%83%94%E3%82%A2%E3%83%8E", resp.Results[2].URL)
	assert.Equal(t, "Lemon - Piano Tutorial (YouTube)", resp.Results[0].Title)
	assert.Equal(t, "https://musescore.com/sheetmusic?text=Lemon", resp.Results[3].URL)
	assert.Equal(t, "Lemon - Piano Sheet Music", resp.Results[3].Title)
	assert.Equal(t, "https://www.google.com/search?q=Lemon+piano+sheet+music+pdf", resp.Results[4].URL)
	assert.Equal(t, "Lemon - Free Piano Sheets", resp.Results[4].Title)
}

func TestGenerate_UniqueIDs(t *testing.T) {
	a, err := Generate("夜に駆ける")
	require.NoError(t, err)
	b, err := Generate("夜に駆ける")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range append(a.Results, b.Results...) {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	assert.True(t, strings.HasPrefix(a.Results[0].ID, "youtube-"))
	assert.True(t, strings.HasPrefix(a.Results[4].ID, "sheet-"))
}

func TestGenerate_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   "} {
		_, err := Generate(q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
}
