package relay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestContent(t *testing.T) {
	assert.Equal(t, "🌠 **New Message from the Universe**\n\n\"hello stars\"", Content("hello stars"))
}

func TestSend_Webhook(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := New(Config{WebhookURL: srv.URL}, srv.Client(), zaptest.NewLogger(t))
	res, err := r.Send(context.Background(), "hello stars")
	require.NoError(t, err)
	assert.Empty(t, res.Warning)

	assert.Equal(t, Content("hello stars"), got.Content)
	assert.Equal(t, DefaultUsername, got.Username)
	assert.Equal(t, DefaultAvatarURL, got.AvatarURL)
}

func TestSend_Downstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := New(Config{WebhookURL: srv.URL}, srv.Client(), zaptest.NewLogger(t))
	_, err := r.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrDownstream)
}

func TestSend_Empty(t *testing.T) {
	r := New(Config{DevMode: true}, nil, zaptest.NewLogger(t))
	_, err := r.Send(context.Background(), " \n")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSend_Unconfigured(t *testing.T) {
	r := New(Config{}, nil, zaptest.NewLogger(t))
	_, err := r.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend_DevMode(t *testing.T) {
	r := New(Config{DevMode: true, DevDelay: 20 * time.Millisecond}, nil, zaptest.NewLogger(t))
	start := time.Now()
	res, err := r.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, DevWarning, res.Warning)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r = New(Config{DevMode: true, DevDelay: time.Hour}, nil, zaptest.NewLogger(t))
	_, err = r.Send(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
}
