package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "gpt-4.1"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4.1", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("s", "value")
	_ = store.Set("i", 42)
	_ = store.Set("i64", int64(7))
	_ = store.Set("f", 3.0)
	_ = store.Set("b", true)
	_ = store.Set("d", "90s")
	_ = store.Set("dd", 5*time.Second)
	_ = store.Set("bad_d", "soon")

	assert.Equal(t, "value", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 7, store.GetInt("i64"))
	assert.Equal(t, 3, store.GetInt("f"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))
	assert.Equal(t, 90*time.Second, store.GetDuration("d"))
	assert.Equal(t, 5*time.Second, store.GetDuration("dd"))
	assert.Zero(t, store.GetDuration("bad_d"))
	assert.Zero(t, store.GetDuration("missing"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("k", "v")

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
