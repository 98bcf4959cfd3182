package records_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smell-of-curry/pokebedrock-guard/guard/records"
	"github.com/smell-of-curry/pokebedrock-guard/guard/storage"
)

type note struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func (n note) EntryID() string { return n.ID }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCache(t *testing.T, kv *storage.Memory, max int) *records.Cache[note] {
	t.Helper()
	return records.NewCache[note](kv, discard(), "test:notes/v1", max)
}

func TestCache_AddNewestFirst(t *testing.T) {
	c := newCache(t, storage.NewMemory(), 10)
	c.Add(note{ID: "a"})
	c.Add(note{ID: "b"})
	c.Add(note{ID: "c"})

	ids := []string{}
	for _, n := range c.All() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestCache_EvictsOldestPastCap(t *testing.T) {
	c := newCache(t, storage.NewMemory(), 5)
	for i := 0; i < 8; i++ {
		c.Add(note{ID: strconv.Itoa(i)})
	}

	all := c.All()
	require.Len(t, all, 5)
	assert.Equal(t, "7", all[0].ID)
	assert.Equal(t, "3", all[4].ID)
}

func TestCache_AllReturnsCopy(t *testing.T) {
	c := newCache(t, storage.NewMemory(), 10)
	c.Add(note{ID: "a"})

	all := c.All()
	all[0].ID = "mutated"
	assert.Equal(t, "a", c.All()[0].ID)
}

func TestCache_FlushRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	c := newCache(t, kv, 10)
	c.Add(note{ID: "a", Body: "hello"})
	require.True(t, c.Dirty())
	require.NoError(t, c.Flush())
	assert.False(t, c.Dirty())

	// A fresh cache over the same store sees the persisted collection.
	c2 := newCache(t, kv, 10)
	require.Equal(t, 1, c2.Len())
	assert.Equal(t, "hello", c2.All()[0].Body)
}

func TestCache_FlushFailureKeepsDirty(t *testing.T) {
	kv := storage.NewMemory()
	c := newCache(t, kv, 10)
	c.Add(note{ID: "a"})

	kv.FailPuts = true
	require.Error(t, c.Flush())
	assert.True(t, c.Dirty())

	// Once the store recovers, a retry succeeds without losing data.
	kv.FailPuts = false
	require.NoError(t, c.Flush())
	assert.False(t, c.Dirty())
	c2 := newCache(t, kv, 10)
	assert.Equal(t, 1, c2.Len())
}

func TestCache_FlushCleanIsNoOp(t *testing.T) {
	kv := storage.NewMemory()
	c := newCache(t, kv, 10)
	c.Add(note{ID: "a"})
	require.NoError(t, c.Flush())

	// The store may now fail; a clean flush over an existing key must not
	// touch it.
	kv.FailPuts = true
	assert.NoError(t, c.Flush())
}

func TestCache_CorruptBlobStartsEmpty(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Put("test:notes/v1", []byte("{not json")))

	c := newCache(t, kv, 10)
	assert.Equal(t, 0, c.Len())
}

func TestCache_NonArrayBlobStartsEmpty(t *testing.T) {
	kv := storage.NewMemory()
	blob, _ := json.Marshal(map[string]string{"id": "a"})
	require.NoError(t, kv.Put("test:notes/v1", blob))

	c := newCache(t, kv, 10)
	assert.Equal(t, 0, c.Len())
}

func TestCache_RemoveByID(t *testing.T) {
	kv := storage.NewMemory()
	c := newCache(t, kv, 10)
	c.Add(note{ID: "a"})
	c.Add(note{ID: "b"})
	require.NoError(t, c.Flush())

	assert.True(t, c.RemoveByID("a"))
	assert.Equal(t, 1, c.Len())
	// Removal persists immediately.
	assert.False(t, c.Dirty())
}

func TestCache_RemoveByIDUnknown(t *testing.T) {
	c := newCache(t, storage.NewMemory(), 10)
	c.Add(note{ID: "a"})
	require.NoError(t, c.Flush())

	assert.False(t, c.RemoveByID("nope"))
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Dirty())
}

func TestCache_Clear(t *testing.T) {
	kv := storage.NewMemory()
	c := newCache(t, kv, 10)
	c.Add(note{ID: "a"})
	c.Add(note{ID: "b"})
	c.Clear()

	assert.Equal(t, 0, c.Len())
	c2 := newCache(t, kv, 10)
	assert.Equal(t, 0, c2.Len())
}

func TestNewID_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[records.NewID()] = true
	}
	// Low-entropy identifiers may collide occasionally; for a small batch
	// nearly all should differ.
	assert.Greater(t, len(seen), 90)
}
