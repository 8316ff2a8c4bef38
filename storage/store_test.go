package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMiss(t *testing.T) {
	store := newTestStore(t)
	entry, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := &ValidationEntry{
		Approved:          false,
		CorrectedCategory: "Monitor",
		Rationale:         "the object is a flat panel display, not a TV",
		DamageLevel:       2,
	}
	require.NoError(t, store.Set("abc123", in))

	out, err := store.Get("abc123")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.False(t, out.Approved)
	assert.Equal(t, "Monitor", out.CorrectedCategory)
	assert.Equal(t, in.Rationale, out.Rationale)
	assert.Equal(t, 2, out.DamageLevel)
}

func TestSetReplacesExisting(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("k", &ValidationEntry{Approved: true, Rationale: "first"}))
	require.NoError(t, store.Set("k", &ValidationEntry{Approved: false, CorrectedCategory: "Kipas", Rationale: "second"}))

	out, err := store.Get("k")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.False(t, out.Approved)
	assert.Equal(t, "Kipas", out.CorrectedCategory)
	assert.Equal(t, "second", out.Rationale)
}

func TestKeysAreIndependent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("a", &ValidationEntry{Approved: true}))
	require.NoError(t, store.Set("b", &ValidationEntry{Approved: false, CorrectedCategory: "TV"}))

	a, err := store.Get("a")
	require.NoError(t, err)
	b, err := store.Get("b")
	require.NoError(t, err)
	assert.True(t, a.Approved)
	assert.False(t, b.Approved)
}
