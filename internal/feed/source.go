package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/techish-thoughts/blogsearch/internal/domain"
)

// maxFeedBytes bounds how much of a feed body is decoded.
const maxFeedBytes = 64 << 20

// Source fetches raw feed records. Failures wrap domain.ErrTransport.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// HTTPSource reads the feed from a URL.
type HTTPSource struct {
	url       string
	client    *http.Client
	userAgent string
}

// NewHTTPSource creates a source for url. A nil client gets a 30s timeout.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{url: url, client: client, userAgent: "blogsearch/1.0"}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrTransport, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrTransport, s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: feed returned status %d: %s",
			domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return decode(resp.Body)
}

// FileSource reads the feed from a local file. Files ending in .gz or .zst
// are decompressed on the fly.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file being read.
func (s *FileSource) Path() string { return s.path }

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context) ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open feed: %w", domain.ErrTransport, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", domain.ErrTransport, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", domain.ErrTransport, err)
		}
		defer zr.Close()
		r = zr
	}
	return decode(r)
}

func decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(io.LimitReader(r, maxFeedBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode feed: %w", domain.ErrTransport, err)
	}
	return records, nil
}
