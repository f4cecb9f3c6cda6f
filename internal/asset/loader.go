package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultMaxBytes     = 10 << 20
)

// Loader resolves an overlay src to a decoded image. The zero value is not
// usable; construct with NewLoader.
type Loader struct {
	dir      string
	client   *http.Client
	maxBytes int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the client used for remote sources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithMaxBytes caps how many bytes a single asset may have.
func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// NewLoader returns a loader serving local paths from dir.
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:      dir,
		client:   &http.Client{Timeout: defaultFetchTimeout},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes src. It returns only once the image is fully
// decoded or has failed.
func (l *Loader) Load(ctx context.Context, src string) (*Asset, error) {
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Fetch returns the raw bytes behind src without decoding them.
func (l *Loader) Fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("%w: empty src", ErrUnsupportedSource)
	case strings.HasPrefix(src, "data:"):
		data, _, err := ParseDataURL(src)
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > l.maxBytes {
			return nil, ErrTooLarge
		}
		return data, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetchRemote(ctx, src)
	case strings.Contains(src, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
	default:
		return l.readLocal(src)
	}
}

func (l *Loader) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch asset: status %d", resp.StatusCode)
	}
	return l.readLimited(resp.Body)
}

func (l *Loader) readLocal(src string) ([]byte, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(src, "/"))
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %s", ErrUnsafePath, src)
	}

	f, err := os.Open(filepath.Join(l.dir, rel))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return l.readLimited(f)
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
