// Package server exposes the HTTP glue endpoints the scene talks to
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/relay"
	"github.com/lixenwraith/living-cosmos/search"
	"github.com/lixenwraith/living-cosmos/song"
)

const maxBodyBytes = 16 << 10

// Sender delivers visitor messages
type Sender interface {
	Send(ctx context.Context, message string) (relay.Result, error)
}

// SongSource produces the current song list
type SongSource interface {
	Fetch(ctx context.Context) ([]song.Song, error)
}

// Options for the handler
type Options struct {
	CacheTTL time.Duration
	// MessageRate is messages per second across all clients; 0 disables throttling
	MessageRate  float64
	MessageBurst int
	Time         clock.TimeProvider
}

// Handler routes the API
type Handler struct {
	sender  Sender
	songs   SongSource
	limiter *rate.Limiter
	router  *http.ServeMux
	tp      clock.TimeProvider
	ttl     time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	cached   []song.Song
	cachedAt time.Time
}

func NewHandler(sender Sender, songs SongSource, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Time == nil {
		opts.Time = clock.NewMonotonicTimeProvider()
	}
	h := &Handler{
		sender: sender,
		songs:  songs,
		router: http.NewServeMux(),
		tp:     opts.Time,
		ttl:    opts.CacheTTL,
		logger: logger.Named("server"),
	}
	if opts.MessageRate > 0 {
		burst := opts.MessageBurst
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(opts.MessageRate), burst)
	}
	h.routes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.router.ServeHTTP(rec, r)
	h.logger.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", time.Since(start)))
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.Health)
	h.router.HandleFunc("POST /api/message", h.Message)
	h.router.HandleFunc("GET /api/youtube", h.Songs)
	h.router.HandleFunc("GET /api/search", h.Search)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "Too many messages, try again soon")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	res, err := h.sender.Send(r.Context(), req.Message)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, messageResponse{Success: true, Warning: res.Warning})
	case errors.Is(err, relay.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message is required")
	case errors.Is(err, relay.ErrNotConfigured):
		h.logger.Error("message relay not configured")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
	default:
		h.logger.Error("failed to send message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to send message")
	}
}

type fetchError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.cachedSongs(r.Context())
	if err != nil {
		h.logger.Error("error fetching song feed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, fetchError{Error: "Failed to fetch videos", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// cachedSongs serves from cache inside the TTL; failures are not cached
func (h *Handler) cachedSongs(ctx context.Context) ([]song.Song, error) {
	now := h.tp.Now()
	h.mu.Lock()
	if h.cached != nil && h.ttl > 0 && now.Sub(h.cachedAt) < h.ttl {
		songs := h.cached
		h.mu.Unlock()
		return songs, nil
	}
	h.mu.Unlock()

	songs, err := h.songs.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []song.Song{}
	}
	h.mu.Lock()
	h.cached = songs
	h.cachedAt = now
	h.mu.Unlock()
	return songs, nil
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	resp, err := search.Generate(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
