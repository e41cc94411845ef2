package feed

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

var (
	gzipReaderPool = sync.Pool{
		New: func() any { return new(gzip.Reader) },
	}
	brotliReaderPool = sync.Pool{
		New: func() any { return brotli.NewReader(nil) },
	}
	emptyReader = strings.NewReader("")
)

// decodeTransport advertises gzip and brotli and decodes the response body
type decodeTransport struct {
	next http.RoundTripper
}

func newDecodeTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &decodeTransport{next: next}
}

func (t *decodeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", "gzip, br")
	}
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	if body != resp.Body {
		resp.Body = body
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}
	return resp, nil
}

func decodeBody(body io.ReadCloser, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip", "x-gzip":
		zr := gzipReaderPool.Get().(*gzip.Reader)
		if err := zr.Reset(body); err != nil {
			gzipReaderPool.Put(zr)
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		return &pooledReader{Reader: zr, body: body, release: func() {
			_ = zr.Reset(emptyReader)
			gzipReaderPool.Put(zr)
		}}, nil
	case "br":
		br := brotliReaderPool.Get().(*brotli.Reader)
		if err := br.Reset(body); err != nil {
			brotliReaderPool.Put(br)
			return nil, fmt.Errorf("brotli body: %w", err)
		}
		return &pooledReader{Reader: br, body: body, release: func() {
			_ = br.Reset(emptyReader)
			brotliReaderPool.Put(br)
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// pooledReader returns its decoder to the pool on Close
type pooledReader struct {
	io.Reader
	body    io.Closer
	release func()
	once    sync.Once
}

func (r *pooledReader) Close() error {
	err := r.body.Close()
	r.once.Do(r.release)
	return err
}
