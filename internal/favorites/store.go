// Package favorites keeps the set of listing ids a client marked as favorite.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/kv"
)

// Store is a favorites set backed by one key of a kv.Store.
// Every mutation rewrites the whole set as a JSON array of ids.
type Store struct {
	kv     kv.Store
	key    string
	logger *zap.Logger

	mu  sync.RWMutex
	ids []int
}

// Open restores the set persisted under key. Content that is not a JSON
// array of integers is logged and replaced by an empty set.
func Open(ctx context.Context, store kv.Store, key string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		kv:     store,
		key:    key,
		logger: logger,
		ids:    []int{},
	}

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites %s: %w", key, err)
	}
	if !ok || raw == "" {
		return s, nil
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Warn("Discarding malformed favorites",
			zap.String("key", key),
			zap.Error(err))
		return s, nil
	}

	for _, id := range ids {
		if !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	return s, nil
}

// IsFavorite reports whether id is in the set
func (s *Store) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// Toggle adds id when absent and removes it when present, then persists.
// It returns the membership after the change.
func (s *Store) Toggle(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.ids)
	idx := slices.Index(next, id)
	isFavorite := idx < 0
	if isFavorite {
		next = append(next, id)
	} else {
		next = slices.Delete(next, idx, idx+1)
	}

	if err := s.persist(ctx, next); err != nil {
		return !isFavorite, err
	}
	s.ids = next
	return isFavorite, nil
}

// Add puts id in the set. Adding an existing id is a no-op.
func (s *Store) Add(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.ids, id) {
		return nil
	}
	next := append(slices.Clone(s.ids), id)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.ids = next
	return nil
}

// List returns a copy of the ids in insertion order
func (s *Store) List() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

func (s *Store) persist(ctx context.Context, ids []int) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save favorites %s: %w", s.key, err)
	}
	return nil
}
