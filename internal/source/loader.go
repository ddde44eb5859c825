package source

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/models"
)

// ErrNotLoaded is returned by Listings while the collection is not ready
var ErrNotLoaded = errors.New("listings not loaded")

// State of the listing collection
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Hook is called after every load attempt with the resulting state
type Hook func(state State, count int, err error)

// Loader fetches the collection once and keeps it for concurrent readers.
// A failed load stays failed until Reload is called.
type Loader struct {
	fetcher Fetcher
	logger  *zap.Logger
	hooks   []Hook

	loadMu sync.Mutex
	loaded bool

	mu       sync.RWMutex
	state    State
	listings []models.Listing
	err      error
}

// NewLoader creates a loader in the Loading state
func NewLoader(fetcher Fetcher, logger *zap.Logger, hooks ...Hook) *Loader {
	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		hooks:   hooks,
		state:   StateLoading,
	}
}

// Load performs the initial fetch. Calls after the first one return the
// outcome of that fetch without hitting the source again.
func (l *Loader) Load(ctx context.Context) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	if l.loaded {
		return l.Err()
	}
	l.loaded = true
	return l.fetch(ctx)
}

// Reload fetches the collection again
func (l *Loader) Reload(ctx context.Context) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	l.loaded = true
	l.mu.Lock()
	l.state = StateLoading
	l.err = nil
	l.mu.Unlock()

	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) error {
	listings, err := l.fetcher.FetchListings(ctx)

	l.mu.Lock()
	if err != nil {
		l.state = StateFailed
		l.listings = nil
		l.err = err
	} else {
		l.state = StateReady
		l.listings = listings
		l.err = nil
	}
	state := l.state
	l.mu.Unlock()

	if err != nil {
		l.logger.Error("Failed to load listings", zap.Error(err))
	} else {
		l.warnDuplicates(listings)
		l.logger.Info("Listings loaded", zap.Int("count", len(listings)))
	}

	for _, hook := range l.hooks {
		hook(state, len(listings), err)
	}
	return err
}

func (l *Loader) warnDuplicates(listings []models.Listing) {
	seen := make(map[int]struct{}, len(listings))
	for _, listing := range listings {
		if _, ok := seen[listing.ID]; ok {
			l.logger.Warn("Duplicate listing id", zap.Int("id", listing.ID))
			continue
		}
		seen[listing.ID] = struct{}{}
	}
}

// State returns the current load state
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Err returns the error of the last failed load, nil otherwise
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Listings returns the loaded collection, or ErrNotLoaded when the loader
// is not ready. The returned slice must not be modified.
func (l *Loader) Listings() ([]models.Listing, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != StateReady {
		return nil, ErrNotLoaded
	}
	return l.listings, nil
}
