package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarease/assetvault/internal/memstore"
	"github.com/librarease/assetvault/internal/usecase"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	return memstore.New(memstore.WithClock(tickingClock()))
}

func seed(t *testing.T, s *memstore.Store, assets ...usecase.Asset) []usecase.Asset {
	t.Helper()
	out := make([]usecase.Asset, 0, len(assets))
	for _, a := range assets {
		created, err := s.CreateAsset(context.Background(), a)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func ids(list []usecase.Asset) []int {
	out := make([]int, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created := seed(t, s,
		usecase.Asset{Name: "Desk", Category: "Furniture", EstimatedValue: 5000, ImageURL: "x"},
		usecase.Asset{Name: "Lamp", Category: "Furniture", EstimatedValue: 1200, ImageURL: "y"},
	)

	assert.Equal(t, 1, created[0].ID)
	assert.Equal(t, 2, created[1].ID)
	assert.False(t, created[0].CreatedAt.IsZero())
	assert.True(t, created[1].CreatedAt.After(created[0].CreatedAt))

	got, err := s.GetAssetByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created[0], got)
}

func TestStore_CreateIgnoresCallerIDAndCreatedAt(t *testing.T) {
	s := newStore(t)

	a, err := s.CreateAsset(context.Background(), usecase.Asset{
		ID:        99,
		Name:      "Watch",
		Category:  "Jewelry",
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, a.ID)
	assert.NotEqual(t, 1999, a.CreatedAt.Year())
}

func TestStore_GetMissing(t *testing.T) {
	s := newStore(t)

	_, err := s.GetAssetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, usecase.IsNotFound(err))
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := newStore(t)

	list, err := s.ListAssets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	seed(t, s,
		usecase.Asset{Name: "A", Category: "Other"},
		usecase.Asset{Name: "B", Category: "Other"},
		usecase.Asset{Name: "C", Category: "Other"},
	)

	list, err = s.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, ids(list))
}

func TestStore_ListTiesBrokenByID(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := memstore.New(memstore.WithClock(func() time.Time { return fixed }))

	seed(t, s,
		usecase.Asset{Name: "A", Category: "Other"},
		usecase.Asset{Name: "B", Category: "Other"},
	)

	list, err := s.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids(list))
}

func TestStore_Update(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	created := seed(t, s, usecase.Asset{
		Name:           "Desk",
		Category:       "Furniture",
		EstimatedValue: 5000,
		ImageURL:       "x",
		Notes:          strPtr("oak"),
	})[0]

	t.Run("empty patch leaves every field unchanged", func(t *testing.T) {
		got, err := s.UpdateAsset(ctx, created.ID, usecase.AssetPatch{})
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("only supplied fields change", func(t *testing.T) {
		got, err := s.UpdateAsset(ctx, created.ID, usecase.AssetPatch{EstimatedValue: intPtr(6000)})
		require.NoError(t, err)

		want := created
		want.EstimatedValue = 6000
		assert.Equal(t, want, got)

		stored, err := s.GetAssetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, want, stored)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := s.UpdateAsset(ctx, 1000, usecase.AssetPatch{Name: strPtr("x")})
		assert.True(t, usecase.IsNotFound(err))
	})
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	created := seed(t, s, usecase.Asset{Name: "Desk", Category: "Furniture", Notes: strPtr("oak")})[0]

	*created.Notes = "changed"

	got, err := s.GetAssetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "oak", *got.Notes)
}

func TestStore_DeleteNeverReusesIDs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	created := seed(t, s,
		usecase.Asset{Name: "A", Category: "Other"},
		usecase.Asset{Name: "B", Category: "Other"},
	)

	deleted, err := s.DeleteAsset(ctx, created[1].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetAssetByID(ctx, created[1].ID)
	assert.True(t, usecase.IsNotFound(err))

	deleted, err = s.DeleteAsset(ctx, created[1].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	next := seed(t, s, usecase.Asset{Name: "C", Category: "Other"})[0]
	assert.Equal(t, 3, next.ID)
}

func TestStore_Search(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seed(t, s,
		usecase.Asset{Name: "MacBook Pro", Category: "Electronics"},
		usecase.Asset{Name: "Office Chair", Category: "Furniture", Notes: strPtr("bought with the MAC")},
		usecase.Asset{Name: "Bicycle", Category: "Sports"},
	)

	cases := []struct {
		name  string
		query string
		want  []int
	}{
		{"name and notes, case insensitive", "mac", []int{2, 1}},
		{"category", "SPORT", []int{3}},
		{"no match", "zzz", []int{}},
		{"empty query", "", []int{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			list, err := s.SearchAssets(ctx, c.query)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Equal(t, c.want, ids(list))
		})
	}
}

func TestStore_ListByCategory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seed(t, s,
		usecase.Asset{Name: "Phone", Category: "Electronics"},
		usecase.Asset{Name: "Desk", Category: "Furniture"},
		usecase.Asset{Name: "Laptop", Category: "Electronics"},
	)

	list, err := s.ListAssetsByCategory(ctx, "Electronics")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids(list))

	list, err = s.ListAssetsByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := s.ListAssetsByCategory(ctx, usecase.CategoryAll)
	require.NoError(t, err)
	everything, err := s.ListAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, everything, all)
}

func TestStore_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	const n = 100
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool, n)
	)
	for range n {
		wg.Go(func() {
			a, err := s.CreateAsset(ctx, usecase.Asset{Name: "x", Category: "Other"})
			assert.NoError(t, err)
			mu.Lock()
			seen[a.ID] = true
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
