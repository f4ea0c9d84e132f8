package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabaseStore(t *testing.T) *DatabaseStore {
	t.Helper()
	ds, err := NewDatabaseStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	return ds
}

func TestDatabaseStoreAddGet(t *testing.T) {
	ds := newTestDatabaseStore(t)

	require.NoError(t, ds.Add("greeting", "hello", 0))

	got, err := ds.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.True(t, ds.Exists("greeting"))

	// Add upserts
	require.NoError(t, ds.Add("greeting", "goodbye", time.Minute))
	got, err = ds.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "goodbye", got)
}

func TestDatabaseStoreGetMissingKey(t *testing.T) {
	ds := newTestDatabaseStore(t)

	_, err := ds.Get("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, ds.Exists("nonexistent"))
}

func TestDatabaseStoreTTLExpiry(t *testing.T) {
	ds := newTestDatabaseStore(t)

	base := time.Now()
	ds.now = func() time.Time { return base }

	require.NoError(t, ds.Add("k", "v", 5*time.Minute))
	assert.True(t, ds.Exists("k"))

	ds.now = func() time.Time { return base.Add(6 * time.Minute) }

	_, err := ds.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := ds.GetAll()
	require.NoError(t, err)
	assert.NotContains(t, all, "k")
}

func TestDatabaseStoreUpdate(t *testing.T) {
	ds := newTestDatabaseStore(t)

	require.NoError(t, ds.Add("name", "John", 5*time.Minute))
	require.NoError(t, ds.Update("name", "Jane", 10*time.Minute))

	got, err := ds.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got)

	// Missing keys are a silent no-op
	require.NoError(t, ds.Update("ghost", "x", time.Minute))
	assert.False(t, ds.Exists("ghost"))
}

func TestDatabaseStoreRemove(t *testing.T) {
	ds := newTestDatabaseStore(t)

	require.NoError(t, ds.Add("k", "v", 0))
	require.NoError(t, ds.Remove("k"))

	_, err := ds.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ds.Remove("k"))
}

func TestDatabaseStoreExpireAndCleanup(t *testing.T) {
	ds := newTestDatabaseStore(t)

	require.NoError(t, ds.Add("stale", "old", 0))
	require.NoError(t, ds.Add("fresh", "new", time.Hour))
	require.NoError(t, ds.Expire("stale"))

	expired, err := ds.ExpiredDetails()
	require.NoError(t, err)
	assert.Contains(t, expired, "stale")

	active, err := ds.ActiveDetails()
	require.NoError(t, err)
	assert.Contains(t, active, "fresh")
	assert.NotContains(t, active, "stale")

	require.NoError(t, ds.CleanupExpired())
	all, err := ds.GetAll()
	require.NoError(t, err)
	assert.NotContains(t, all, "stale")
	assert.Contains(t, all, "fresh")
}

func TestDatabaseStoreExpireAllThenRemoveAll(t *testing.T) {
	ds := newTestDatabaseStore(t)

	require.NoError(t, ds.Add("a", "1", 0))
	require.NoError(t, ds.Add("b", "2", time.Hour))

	require.NoError(t, ds.ExpireAll())
	expired, err := ds.ExpiredDetails()
	require.NoError(t, err)
	assert.Len(t, expired, 2)

	require.NoError(t, ds.RemoveAll())
	all, err := ds.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDatabaseStoreStructuredValueRoundTrip(t *testing.T) {
	ds := newTestDatabaseStore(t)

	value := map[string]any{"name": "John", "city": "Lagos"}
	require.NoError(t, ds.Add("profile", value, 0))

	got, err := ds.Get("profile")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}
