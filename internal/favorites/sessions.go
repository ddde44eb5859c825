package favorites

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/kv"
)

// Sessions opens one Store per client session under "<prefix>:<session>".
// Open stores are kept for ttl so consecutive requests share in-memory state.
type Sessions struct {
	kv     kv.Store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
	open   *ccache.Cache[*Store]
}

// NewSessions creates a registry holding up to maxOpen stores
func NewSessions(store kv.Store, prefix string, maxOpen int64, ttl time.Duration, logger *zap.Logger) *Sessions {
	return &Sessions{
		kv:     store,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
		open:   ccache.New(ccache.Configure[*Store]().MaxSize(maxOpen)),
	}
}

// Key returns the KV key holding the favorites of sessionID
func (s *Sessions) Key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// For returns the favorites of sessionID, restoring them on first use
func (s *Sessions) For(ctx context.Context, sessionID string) (*Store, error) {
	key := s.Key(sessionID)
	item, err := s.open.Fetch(key, s.ttl, func() (*Store, error) {
		return Open(ctx, s.kv, key, s.logger.With(zap.String("session", sessionID)))
	})
	if err != nil {
		return nil, err
	}
	return item.Value(), nil
}

// Stop releases the registry worker
func (s *Sessions) Stop() {
	s.open.Stop()
}
