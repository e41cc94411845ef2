// Package feed fetches the channel video feed and turns it into songs
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/song"
)

const (
	// DefaultChannelID is the published piano channel
	DefaultChannelID = "UCiWwCOCTHfUe_V_-Pqknz-w"
	// DefaultBaseURL serves channel feeds without an API key
	DefaultBaseURL = "https://www.youtube.com/feeds/videos.xml"

	maxFeedBytes = 4 << 20
)

// ErrFeedStatus marks a non-2xx feed response
var ErrFeedStatus = errors.New("feed request failed")

// Fetcher retrieves and transforms the channel feed
type Fetcher struct {
	client    *http.Client
	baseURL   string
	channelID string
	opts      Options
	logger    *zap.Logger
}

// NewFetcher wraps client's transport with body decoding. client may be nil
func NewFetcher(client *http.Client, baseURL, channelID string, opts Options, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if channelID == "" {
		channelID = DefaultChannelID
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var transport http.RoundTripper
	if client != nil {
		transport = client.Transport
		if timeout <= 0 {
			timeout = client.Timeout
		}
	}
	return &Fetcher{
		client:    &http.Client{Transport: newDecodeTransport(transport), Timeout: timeout},
		baseURL:   baseURL,
		channelID: channelID,
		opts:      opts,
		logger:    logger.Named("feed"),
	}
}

// URL is the feed address for the configured channel
func (f *Fetcher) URL() string {
	return f.baseURL + "?channel_id=" + url.QueryEscape(f.channelID)
}

// Fetch downloads the feed and returns the transformed song list
func (f *Fetcher) Fetch(ctx context.Context) ([]song.Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFeedStatus, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	entries, err := ParseAtom(data)
	if err != nil {
		return nil, err
	}
	songs := Songs(entries, f.opts)

	f.logger.Debug("feed fetched",
		zap.Int("entries", len(entries)),
		zap.Int("songs", len(songs)),
		zap.Duration("elapsed", time.Since(start)))
	return songs, nil
}
