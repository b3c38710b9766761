package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/marketpulse/campaign-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingSource records how many times it was loaded.
type countingSource struct {
	identity string
	rows     []models.Event
	err      error
	loads    int
}

func (s *countingSource) Identity() string { return s.identity }

func (s *countingSource) Load(ctx context.Context) ([]models.Event, error) {
	s.loads++
	return s.rows, s.err
}

func testRows() []models.Event {
	return []models.Event{
		{UserID: "u1", CampaignID: "C1", DeviceType: "mobile", Location: "Berlin"},
		{UserID: "u2", CampaignID: "C2", DeviceType: "desktop", Location: "Hamburg"},
		{UserID: "u3", CampaignID: "C1", DeviceType: "mobile", Location: "Berlin"},
	}
}

func TestCache_LoadsOncePerIdentity(t *testing.T) {
	src := &countingSource{identity: "test:a", rows: testRows()}
	cache := NewCache(zap.NewNop(), nil)

	first, err := cache.Get(context.Background(), src)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 1, src.loads)
	assert.Same(t, first, second)
}

func TestCache_DistinctIdentitiesLoadSeparately(t *testing.T) {
	a := &countingSource{identity: "test:a", rows: testRows()}
	b := &countingSource{identity: "test:b", rows: testRows()[:1]}
	cache := NewCache(zap.NewNop(), nil)

	storeA, err := cache.Get(context.Background(), a)
	require.NoError(t, err)
	storeB, err := cache.Get(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, 3, storeA.Len())
	assert.Equal(t, 1, storeB.Len())
	assert.NotEqual(t, storeA.LoadID(), storeB.LoadID())
}

func TestCache_LoadErrorIsNotCached(t *testing.T) {
	src := &countingSource{identity: "test:a", err: errors.New("boom")}
	cache := NewCache(zap.NewNop(), nil)

	_, err := cache.Get(context.Background(), src)
	require.Error(t, err)

	src.err = nil
	src.rows = testRows()
	store, err := cache.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 2, src.loads)
}

func TestCache_EvictForcesReload(t *testing.T) {
	src := &countingSource{identity: "test:a", rows: testRows()}
	cache := NewCache(zap.NewNop(), nil)

	_, err := cache.Get(context.Background(), src)
	require.NoError(t, err)

	cache.Evict(src.Identity())

	_, err = cache.Get(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, src.loads)
}

func TestRowStore_Domains(t *testing.T) {
	store := NewRowStore("test:a", testRows())

	assert.Equal(t, []string{"C1", "C2"}, store.Campaigns())
	assert.Equal(t, []string{"desktop", "mobile"}, store.DeviceTypes())
	assert.Equal(t, []string{"Berlin", "Hamburg"}, store.Locations())
	assert.Equal(t, 3, store.Len())
	assert.NotZero(t, store.LoadID())
	assert.False(t, store.LoadedAt().IsZero())
	assert.Equal(t, "test:a", store.Source())
}

func TestRowStore_EmptyDataset(t *testing.T) {
	store := NewRowStore("test:empty", nil)

	assert.Zero(t, store.Len())
	assert.Empty(t, store.Campaigns())
	assert.Empty(t, store.DeviceTypes())
	assert.Empty(t, store.Locations())
}
