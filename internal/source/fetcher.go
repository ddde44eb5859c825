// Package source fetches the listing collection and tracks its load state.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3/client"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

// ErrUnexpectedStatus is returned when the listing endpoint answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status fetching listings")

// Fetcher produces the full listing collection
type Fetcher interface {
	FetchListings(ctx context.Context) ([]models.Listing, error)
}

var _ Fetcher = (*HTTPSource)(nil)

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context) ([]models.Listing, error)

func (f FetcherFunc) FetchListings(ctx context.Context) ([]models.Listing, error) {
	return f(ctx)
}

// HTTPSource downloads the static listings JSON with a single GET.
type HTTPSource struct {
	url     string
	timeout time.Duration
	client  *client.Client
}

// NewHTTPSource creates a source for url. A zero timeout means no client timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:     url,
		timeout: timeout,
		client:  client.New(),
	}
}

// FetchListings performs one request and decodes the body. It never retries.
func (s *HTTPSource) FetchListings(ctx context.Context) ([]models.Listing, error) {
	resp, err := s.client.Get(s.url, client.Config{
		Ctx:     ctx,
		Timeout: s.timeout,
		Header:  map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings from %s: %w", s.url, err)
	}
	defer resp.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}

	var listings []models.Listing
	if err := json.Unmarshal(resp.Body(), &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}
