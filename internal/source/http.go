package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/logx"
)

// DefaultMaxBytes caps responses when HTTP.MaxBytes is not set.
const DefaultMaxBytes = 256 << 20

// ErrTooLarge is wrapped by a FetchError when a response exceeds the cap.
var ErrTooLarge = errors.New("source: response too large")

// HTTP fetches models from a web server.
type HTTP struct {
	BaseURL  string
	Client   *http.Client
	MaxBytes int64
}

// NewHTTP builds an HTTP source from configuration.
func NewHTTP(cfg config.SourceConfig) *HTTP {
	return &HTTP{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Client:   &http.Client{Timeout: cfg.Timeout()},
		MaxBytes: cfg.MaxBytes,
	}
}

// Resolve turns an identifier into an absolute URL. Absolute http(s) URLs
// pass through; anything else is joined to BaseURL without its leading slash.
func (h *HTTP) Resolve(identifier string) string {
	id := strings.TrimPrefix(identifier, "/")
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return h.BaseURL + "/" + id
}

// Fetch downloads the displayable form of identifier.
func (h *HTTP) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	return h.get(ctx, h.Resolve(ViewPath(identifier)))
}

// Download retrieves url verbatim.
func (h *HTTP) Download(ctx context.Context, url string) ([]byte, error) {
	return h.get(ctx, url)
}

func (h *HTTP) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	logx.Logger().Debug("source: fetching", "url", url)
	resp, err := h.client().Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	limit := h.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)}
	}
	return data, nil
}

func (h *HTTP) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return http.DefaultClient
}
