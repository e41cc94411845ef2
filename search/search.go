// Package search builds outbound search links for piano tutorials and sheet music.
// No remote search API is queried
package search

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyQuery is returned for a blank query
var ErrEmptyQuery = errors.New("query parameter is required")

// Kind of a search link
type Kind string

const (
	KindVideo Kind = "video"
	KindSheet Kind = "sheet"
)

// Result is one outbound link
type Result struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        Kind   `json:"type"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Response is the wire shape of a search
type Response struct {
	Results      []Result `json:"results"`
	Query        string   `json:"query"`
	TotalResults int      `json:"totalResults"`
}

var videoVariations = []string{"%s piano tutorial", "%s piano cover", "%s ピアノ"}

// Generate returns three video search links followed by two sheet music links
func Generate(query string) (Response, error) {
	if strings.TrimSpace(query) == "" {
		return Response{}, ErrEmptyQuery
	}

	results := make([]Result, 0, len(videoVariations)+2)
	for _, v := range videoVariations {
		q := fmt.Sprintf(v, query)
		results = append(results, Result{
			ID:          "youtube-" + uuid.NewString(),
			Title:       query + " - Piano Tutorial (YouTube)",
			URL:         "https://www.youtube.com/results?search_query=" + url.QueryEscape(q),
			Type:        KindVideo,
			Description: fmt.Sprintf("Search results for %q on YouTube", q),
		})
	}

	results = append(results,
		Result{
			ID:          "sheet-" + uuid.NewString(),
			Title:       query + " - Piano Sheet Music",
			URL:         "https://musescore.com/sheetmusic?text=" + url.QueryEscape(query),
			Type:        KindSheet,
			Description: "Sheet music on Musescore.com",
		},
		Result{
			ID:          "sheet-" + uuid.NewString(),
			Title:       query + " - Free Piano Sheets",
			URL:         "https://www.google.com/search?q=" + url.QueryEscape(query+" piano sheet music pdf"),
			Type:        KindSheet,
			Description: "Google search for free piano sheets",
		},
	)

	return Response{Results: results, Query: query, TotalResults: len(results)}, nil
}
