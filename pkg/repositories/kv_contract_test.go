package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKeyValueStoreContract exercises the behavior every backend must share.
// newStore must return an empty store.
func runKeyValueStoreContract(t *testing.T, newStore func(t *testing.T) KeyValueStore) {
	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		v, found, err := store.Get(context.Background(), "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set many then get", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetMany(ctx, map[string]string{
			"ns:rosterData":     `[{"playerName":"Josh Allen"}]`,
			"ns:rosterFileName": "espn.csv",
		}))

		v, found, err := store.Get(ctx, "ns:rosterData")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"playerName":"Josh Allen"}]`, v)

		v, found, err = store.Get(ctx, "ns:rosterFileName")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "espn.csv", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetMany(ctx, map[string]string{"k": "one"}))
		require.NoError(t, store.SetMany(ctx, map[string]string{"k": "two"}))

		v, _, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", v)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetMany(ctx, map[string]string{"k": ""}))

		v, found, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.SetMany(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}))
		require.NoError(t, store.Delete(ctx, "a", "b", "never-set"))
		require.NoError(t, store.Delete(ctx, "a", "b"))

		_, found, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, found)

		v, found, err := store.Get(ctx, "c")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "3", v)
	})
}

func TestMemoryKeyValueStore_Contract(t *testing.T) {
	runKeyValueStoreContract(t, func(t *testing.T) KeyValueStore {
		return NewMemoryKeyValueStore()
	})
}

func TestNamespacedKey(t *testing.T) {
	assert.Equal(t, "rosterai:rosterData", NamespacedKey("rosterai", "rosterData"))
	assert.Equal(t, "rosterData", NamespacedKey("  ", "rosterData"))
}
