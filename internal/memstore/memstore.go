// Package memstore keeps assets in process memory. It implements
// usecase.Repository and is the default store when no database is
// configured.
package memstore

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/librarease/assetvault/internal/usecase"
)

type Store struct {
	mu     sync.RWMutex
	assets map[int]usecase.Asset
	// nextID only grows, ids of deleted assets are never handed out again
	nextID int
	now    func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		assets: make(map[int]usecase.Asset),
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Health() map[string]string {
	s.mu.RLock()
	n := len(s.assets)
	s.mu.RUnlock()

	return map[string]string{
		"status":  "up",
		"message": "It's healthy",
		"driver":  "memory",
		"assets":  strconv.Itoa(n),
	}
}

func (s *Store) Close() error {
	return nil
}

// snapshot copies the assets matching keep, newest first.
func (s *Store) snapshot(keep func(usecase.Asset) bool) []usecase.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]usecase.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if keep == nil || keep(a) {
			list = append(list, a.Clone())
		}
	}
	slices.SortFunc(list, usecase.CompareNewestFirst)
	return list
}

func (s *Store) ListAssets(_ context.Context) ([]usecase.Asset, error) {
	return s.snapshot(nil), nil
}

func (s *Store) GetAssetByID(_ context.Context, id int) (usecase.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return usecase.Asset{}, usecase.AssetNotFound(id)
	}
	return a.Clone(), nil
}

func (s *Store) CreateAsset(_ context.Context, asset usecase.Asset) (usecase.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := asset.Clone()
	a.ID = s.nextID
	a.CreatedAt = s.now()
	s.nextID++

	s.assets[a.ID] = a
	return a.Clone(), nil
}

func (s *Store) UpdateAsset(_ context.Context, id int, patch usecase.AssetPatch) (usecase.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.assets[id]
	if !ok {
		return usecase.Asset{}, usecase.AssetNotFound(id)
	}

	updated := existing.Apply(patch)
	s.assets[id] = updated
	return updated.Clone(), nil
}

func (s *Store) DeleteAsset(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return false, nil
	}
	delete(s.assets, id)
	return true, nil
}

func (s *Store) SearchAssets(_ context.Context, query string) ([]usecase.Asset, error) {
	if query == "" {
		return []usecase.Asset{}, nil
	}
	q := strings.ToLower(query)

	return s.snapshot(func(a usecase.Asset) bool {
		return strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Category), q) ||
			(a.Notes != nil && strings.Contains(strings.ToLower(*a.Notes), q))
	}), nil
}

func (s *Store) ListAssetsByCategory(ctx context.Context, category string) ([]usecase.Asset, error) {
	if category == usecase.CategoryAll {
		return s.ListAssets(ctx)
	}
	return s.snapshot(func(a usecase.Asset) bool {
		return a.Category == category
	}), nil
}
