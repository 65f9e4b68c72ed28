package testing

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs the conformance test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Missing", func(t *testing.T) {
			testMissing(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("WriteIndex", func(t *testing.T) {
			testWriteIndex(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})

		t.Run("ConcurrentDistinctKeys", func(t *testing.T) {
			testConcurrentDistinctKeys(t, factory())
		})

		t.Run("ConcurrentSameKey", func(t *testing.T) {
			testConcurrentSameKey(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	database.Set("test-key", "test-value", 1)

	value, ok := database.Get("test-key")
	require.True(t, ok, "expected key to exist after Set")
	assert.Equal(t, "test-value", value)
	assert.Equal(t, 1, database.Len())
}

func testOverwrite(t *testing.T, database db.KVDB) {
	defer database.Close()

	database.Set("key", "v1", 1)
	database.Set("key", "v2", 2)

	value, ok := database.Get("key")
	require.True(t, ok)
	assert.Equal(t, "v2", value, "last writer must win")
	assert.Equal(t, 1, database.Len())
}

func testMissing(t *testing.T, database db.KVDB) {
	defer database.Close()

	value, ok := database.Get("nonexistent-key")
	assert.False(t, ok)
	assert.Empty(t, value)

	database.Set("other", "x", 1)
	_, ok = database.Get("nonexistent-key")
	assert.False(t, ok)
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	// empty values are valid values
	database.Set("empty", "", 1)
	value, ok := database.Get("empty")
	assert.True(t, ok)
	assert.Equal(t, "", value)

	// unicode and separator characters in keys and values
	database.Set("ключ - 🔑", "wert: \"1\"\n", 2)
	value, ok = database.Get("ключ - 🔑")
	assert.True(t, ok)
	assert.Equal(t, "wert: \"1\"\n", value)

	// large value
	large := strings.Repeat("x", 1<<20)
	database.Set("large", large, 3)
	value, ok = database.Get("large")
	assert.True(t, ok)
	assert.Len(t, value, 1<<20)

	// keys that only differ in case are different keys
	database.Set("Key", "upper", 4)
	database.Set("key", "lower", 5)
	value, _ = database.Get("Key")
	assert.Equal(t, "upper", value)
	value, _ = database.Get("key")
	assert.Equal(t, "lower", value)
}

func testWriteIndex(t *testing.T, database db.KVDB) {
	defer database.Close()

	assert.Equal(t, uint64(0), database.WriteIdx())

	database.Set("a", "1", 3)
	database.Set("b", "2", 7)
	database.Set("c", "3", 5)
	assert.Equal(t, uint64(7), database.WriteIdx(), "write index must never decrease")
}

func testInfo(t *testing.T, database db.KVDB) {
	defer database.Close()

	for i := 0; i < 10; i++ {
		database.Set(fmt.Sprintf("key-%d", i), strings.Repeat("v", 100), uint64(i+1))
	}

	info := database.GetInfo()
	assert.NotEmpty(t, info.DbType)
	assert.Equal(t, 10, info.Keys)
	assert.Equal(t, uint64(10), info.WriteIdx)
	assert.Equal(t, int64(10), info.ValueSizes.Samples)
	assert.Equal(t, 100, info.ValueSizes.Average)
}

func testConcurrentDistinctKeys(t *testing.T, database db.KVDB) {
	defer database.Close()

	const numKeys = 1000
	var index atomic.Uint64
	var wg sync.WaitGroup

	for i := 0; i < numKeys; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			database.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i), index.Add(1))
		}(i)
	}
	wg.Wait()

	for i := 0; i < numKeys; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, ok := database.Get(fmt.Sprintf("key-%d", i))
			assert.True(t, ok)
			assert.Equal(t, fmt.Sprintf("value-%d", i), value)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, numKeys, database.Len())
}

func testConcurrentSameKey(t *testing.T, database db.KVDB) {
	defer database.Close()

	// every written value is one of these, readers must never see anything else
	values := []string{
		strings.Repeat("a", 4096),
		strings.Repeat("b", 4096),
		strings.Repeat("c", 4096),
	}
	valid := map[string]bool{values[0]: true, values[1]: true, values[2]: true}

	var index atomic.Uint64
	database.Set("shared", values[0], index.Add(1))

	var wg sync.WaitGroup
	var invalid atomic.Int32
	for w := 0; w < 8; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				database.Set("shared", values[(w+i)%len(values)], index.Add(1))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				value, ok := database.Get("shared")
				if !ok || !valid[value] {
					invalid.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), invalid.Load(), "readers observed missing or partial values")
}

func testRealisticUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	const (
		numWorkers   = 8
		opsPerWorker = 1_000
	)

	var index atomic.Uint64
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				// every worker owns its keys, plus a few hot keys that everybody writes
				own := fmt.Sprintf("worker-%d-key-%d", workerID, i%100)
				hot := fmt.Sprintf("hot-key-%d", (i/10)%10)

				switch i % 10 {
				case 0, 1, 2, 3, 4, 5, 6:
					database.Set(own, fmt.Sprintf("%d-%d", workerID, i), index.Add(1))
				case 7, 8:
					database.Get(own)
				case 9:
					database.Set(hot, fmt.Sprintf("%d-%d", workerID, i), index.Add(1))
				}
			}
		}(w)
	}
	wg.Wait()

	// the last value each worker wrote to its own keys must be visible
	for w := 0; w < numWorkers; w++ {
		for k := 0; k < 100; k++ {
			last := -1
			for i := 0; i < opsPerWorker; i++ {
				if i%100 == k && i%10 <= 6 {
					last = i
				}
			}
			if last < 0 {
				continue
			}
			value, ok := database.Get(fmt.Sprintf("worker-%d-key-%d", w, k))
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("%d-%d", w, last), value)
		}
	}
	// keys with k%10 >= 7 are only ever read
	assert.Equal(t, numWorkers*70+10, database.Len())
}
