package lstore

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/ValentinKolb/sKV/lib/db/engines/locked"
	"github.com/ValentinKolb/sKV/lib/db/engines/maple"
	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFactories = map[string]store.DBFactory{
	"maple":  func() db.KVDB { return maple.NewMapleDB(nil) },
	"locked": locked.NewLockedDB,
}

func forEachEngine(t *testing.T, fn func(t *testing.T, s store.IStore)) {
	for name, factory := range testFactories {
		t.Run(name, func(t *testing.T) {
			fn(t, NewLocalStore(factory))
		})
	}
}

func TestPutThenGet(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s store.IStore) {
		require.NoError(t, s.Put("a", "1"))

		value, err := s.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "1", value)
	})
}

func TestGetMiss(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s store.IStore) {
		_, err := s.Get("b")
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrKeyNotFound))

		var storeErr *store.Error
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, store.RetCKeyNotFound, storeErr.Code)
		assert.Equal(t, "b", storeErr.Msg)
	})
}

func TestOverwrite(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s store.IStore) {
		require.NoError(t, s.Put("k", "v1"))
		require.NoError(t, s.Put("k", "v2"))

		value, err := s.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v2", value)
	})
}

func TestConcurrentDistinctKeys(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s store.IStore) {
		const n = 500
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Put(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				value, err := s.Get(fmt.Sprintf("key-%d", i))
				assert.NoError(t, err)
				assert.Equal(t, fmt.Sprintf("value-%d", i), value)
			}(i)
		}
		wg.Wait()

		info, err := s.GetDBInfo()
		require.NoError(t, err)
		assert.Equal(t, n, info.Keys)
		assert.Equal(t, uint64(n), info.WriteIdx)
	})
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", store.NewError(store.RetCKeyNotFound, "x"))
	assert.True(t, errors.Is(err, store.ErrKeyNotFound))
	assert.False(t, errors.Is(store.NewError(store.RetCInternalError, "x"), store.ErrKeyNotFound))
	assert.Contains(t, store.ErrKeyNotFound.Error(), "KeyNotFound")
}
