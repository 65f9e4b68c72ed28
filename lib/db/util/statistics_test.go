package util

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionStats(t *testing.T) {
	even := NewDistributionStats([]int64{10, 10, 10, 10})
	assert.Equal(t, int64(10), even.Min)
	assert.Equal(t, int64(10), even.Max)
	assert.InDelta(t, 10.0, even.Mean, 1e-9)
	assert.InDelta(t, 1.0, even.Quality, 1e-9)

	skewed := NewDistributionStats([]int64{0, 0, 0, 40})
	assert.Less(t, skewed.Quality, even.Quality)

	assert.Equal(t, 1.0, NewDistributionStats([]int64{0, 0}).Quality)
	assert.Equal(t, DistributionStats{}, NewDistributionStats(nil))
}

func TestSizeSampler(t *testing.T) {
	s := NewSizeSampler(0)
	assert.Equal(t, db.ValueSizeInfo{}, s.Info())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add(100)
			}
		}()
	}
	wg.Wait()

	info := s.Info()
	require.Equal(t, int64(800), info.Samples)
	assert.Equal(t, 100, info.Average)
	assert.Equal(t, 100, info.Median)
	assert.Equal(t, 100, info.P99)
}

func TestHashString(t *testing.T) {
	assert.Equal(t, HashString("key", 42), HashString("key", 42))
	assert.NotEqual(t, HashString("key", 1), HashString("key", 2))
	assert.NotEqual(t, HashString("a", 0), HashString("b", 0))
}
