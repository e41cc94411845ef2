// Package client is the scene side of the HTTP glue endpoints
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/relay"
	"github.com/lixenwraith/living-cosmos/search"
	"github.com/lixenwraith/living-cosmos/song"
)

const (
	maxResponseBytes = 1 << 20
	sourceName       = "client"
)

// ErrStatus marks a non-2xx API response
var ErrStatus = errors.New("api request failed")

// Client calls the API served by the server package
type Client struct {
	base   string
	http   *http.Client
	logger *zap.Logger
	wg     sync.WaitGroup
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: logger.Named("client"),
	}
}

// Songs fetches the song list. Any failure, a non-array body or an empty list
// yields the fixed fallback list with fallback set
func (c *Client) Songs(ctx context.Context) (songs []song.Song, fallback bool) {
	if c.base == "" {
		return song.Fallback(), true
	}
	var raw []song.Song
	if err := c.get(ctx, "/api/youtube", &raw); err != nil {
		c.logger.Warn("song list unavailable, using fallback", zap.Error(err))
		return song.Fallback(), true
	}
	valid := raw[:0]
	for _, s := range raw {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		c.logger.Warn("song list empty, using fallback")
		return song.Fallback(), true
	}
	return valid, false
}

// SendMessage posts a visitor message
func (c *Client) SendMessage(ctx context.Context, message string) (relay.Result, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return relay.Result{}, fmt.Errorf("encode message: %w", err)
	}
	var out struct {
		Success bool   `json:"success"`
		Warning string `json:"warning"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/message", bytes.NewReader(body), &out); err != nil {
		return relay.Result{}, err
	}
	return relay.Result{Warning: out.Warning}, nil
}

// Search asks for search links
func (c *Client) Search(ctx context.Context, query string) (search.Response, error) {
	var out search.Response
	err := c.get(ctx, "/api/search?q="+url.QueryEscape(query), &out)
	return out, err
}

// LoadSongs fetches on a goroutine and delivers EventSongsLoaded
func (c *Client) LoadSongs(ctx context.Context, q *event.Queue) {
	c.async(func() {
		songs, fallback := c.Songs(ctx)
		q.Emit(event.EventSongsLoaded, sourceName, &event.SongsPayload{Songs: songs, Fallback: fallback})
	})
}

// SendMessageAsync delivers EventMessageSent when the request completes
func (c *Client) SendMessageAsync(ctx context.Context, q *event.Queue, message string) {
	c.async(func() {
		res, err := c.SendMessage(ctx, message)
		q.Emit(event.EventMessageSent, sourceName, &event.MessagePayload{Err: err, Warning: res.Warning})
	})
}

// SearchAsync delivers EventSearchCompleted when the request completes
func (c *Client) SearchAsync(ctx context.Context, q *event.Queue, query string) {
	c.async(func() {
		resp, err := c.Search(ctx, query)
		q.Emit(event.EventSearchCompleted, sourceName, &event.SearchPayload{Query: query, Results: resp.Results, Err: err})
	})
}

// Wait blocks until every async request has delivered its event
func (c *Client) Wait() { c.wg.Wait() }

func (c *Client) async(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c.base == "" {
		return fmt.Errorf("%w: no api base url", ErrStatus)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("%w: %d %s", ErrStatus, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
