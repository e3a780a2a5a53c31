package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var v []string
	found, err := store.Get("never-set", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetGetRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("expanded-m1", []string{"c1", "c2"}))

	var v []string
	found, err := store.Get("expanded-m1", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"c1", "c2"}, v)
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("featured-shown", map[string]string{"a1": "2026-08-30"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	var v map[string]string
	found, err := reopened.Get("featured-shown", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2026-08-30", v["a1"])
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("key", 1))
	require.NoError(t, store.Delete("key"))
	require.NoError(t, store.Delete("key"))

	var v int
	found, err := store.Get("key", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeysWithSeparatorsAreSafe(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("expanded-menus/m1", []string{"c1"}))

	var v []string
	found, err := store.Get("expanded-menus/m1", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"c1"}, v)
}
