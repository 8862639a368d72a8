package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/store"
)

// TestStore_Integration runs against a real server.
// Example: POSTGRES_TEST_URL="postgres://chronos_user@localhost:5432/chronos_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}
	ctx := context.Background()

	procA := New(connStr)
	require.NoError(t, procA.Init())
	procB := New(connStr)
	require.NoError(t, procB.Load())

	storeA := store.New(procA)
	storeB := store.New(procB)
	defer storeA.Close()
	defer storeB.Close()

	key := "integration-" + time.Now().Format("150405.000")

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, procA.Put(ctx, key, []byte(`{"n":1}`)))
		v, ok, err := procA.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"n":1}`, string(v))
	})

	t.Run("Notify", func(t *testing.T) {
		a := store.Open(storeA, key, map[string]int{})
		b := store.Open(storeB, key, map[string]int{})
		a.Set(map[string]int{"n": 2})
		require.Eventually(t, func() bool { return b.Get()["n"] == 2 }, 5*time.Second, 50*time.Millisecond)
	})

	t.Run("History", func(t *testing.T) {
		revs, err := procA.History(ctx, key, 5)
		require.NoError(t, err)
		assert.NotEmpty(t, revs)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, procA.Delete(ctx, key))
		_, ok, err := procA.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
