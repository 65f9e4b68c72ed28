package maple

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/ValentinKolb/sKV/lib/db/engines/maple/internal"
	"github.com/ValentinKolb/sKV/lib/db/util"
)

// --------------------------------------------------------------------------
// Core Maple database structure
// --------------------------------------------------------------------------

// mapleImpl implements an in-memory database with sharded concurrent maps
type mapleImpl struct {
	numShards int               // Number of shards
	seed      uint64            // Seed for hash function
	shards    []*internal.Shard // Array of shards
	currIndex atomic.Uint64     // Highest write index applied so far
	closed    atomic.Bool
}

// DBOptions configures the mapleImpl behavior during initialization
type DBOptions struct {
	NumShards int // Number of shards (0 = auto)
}

// DefaultOptions returns the default mapleImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards: runtime.NumCPU(), // Auto-determine based on CPU count
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapleDB creates a new MapleDB instance with the specified options (optional)
func NewMapleDB(opts *DBOptions) db.KVDB {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NumShards < 1 {
		opts.NumShards = DefaultOptions().NumShards
	}

	shards := make([]*internal.Shard, opts.NumShards)
	for i := 0; i < opts.NumShards; i++ {
		shards[i] = internal.NewShard()
	}

	return &mapleImpl{
		numShards: opts.NumShards,
		seed:      util.GenerateSeed(),
		shards:    shards,
	}
}

// shardFor returns the shard responsible for key
func (maple *mapleImpl) shardFor(key string) *internal.Shard {
	return internal.GetShard(util.HashString(key, maple.seed), maple.shards)
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
// If the key already exists, the old value is overwritten.
// Writes carrying a lower write index than the stored entry are ignored (stale writes).
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Set(key string, value string, writeIndex uint64) {
	maple.setWriteIdx(writeIndex)

	// Compute holds the bucket lock of the key for the whole update
	maple.shardFor(key).Data.Compute(key, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if loaded && writeIndex < old.Index {
			return old, false
		}
		return internal.Entry{Value: value, Index: writeIndex}, false
	})
}

// Get retrieves the value for a key.
// The boolean indicates whether a value for the key was found.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Get(key string) (string, bool) {
	entry, ok := maple.shardFor(key).Data.Load(key)
	if !ok {
		return "", false
	}
	return entry.Value, true
}

// Len returns the number of stored keys
func (maple *mapleImpl) Len() int {
	n := 0
	for _, shard := range maple.shards {
		n += shard.Data.Size()
	}
	return n
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the database.
// Value sizes are estimated from a sample of every shard.
func (maple *mapleImpl) GetInfo() db.DatabaseInfo {
	sizes := util.NewSizeSampler(0)
	samplesPerShard := 100
	shardSizes := make([]int64, len(maple.shards))

	// concurrently collect samples from all shards
	var wg sync.WaitGroup
	wg.Add(len(maple.shards))
	for shardIndex, shard := range maple.shards {
		go func(i int, s *internal.Shard) {
			defer wg.Done()
			count := 0
			s.Data.Range(func(_ string, entry internal.Entry) bool {
				sizes.Add(len(entry.Value))
				count++
				return count < samplesPerShard
			})
			// each goroutine writes its own slot
			shardSizes[i] = int64(s.Data.Size())
		}(shardIndex, shard)
	}
	wg.Wait()

	keys := 0
	for _, size := range shardSizes {
		keys += int(size)
	}

	meta := &struct {
		ShardCount        int                    `json:"shard_count"`
		ShardDistribution util.DistributionStats `json:"shard_distribution"`
	}{
		ShardCount:        len(maple.shards),
		ShardDistribution: util.NewDistributionStats(shardSizes),
	}

	return db.DatabaseInfo{
		DbType:     db.ImplMaple,
		Keys:       keys,
		WriteIdx:   maple.currIndex.Load(),
		ValueSizes: sizes.Info(),
		Metadata:   meta,
	}
}

// Close releases all entries. The database must not be used afterwards.
func (maple *mapleImpl) Close() error {
	if maple.closed.CompareAndSwap(false, true) {
		for _, shard := range maple.shards {
			shard.Data.Clear()
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Index Management
// --------------------------------------------------------------------------

// setWriteIdx updates the current index if newIdx is greater than the current one
//
// Thread-safety: This method uses a CAS loop so the index only ever increases.
func (maple *mapleImpl) setWriteIdx(newIdx uint64) {
	for {
		currIdx := maple.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if maple.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

// WriteIdx returns the current index of the database
func (maple *mapleImpl) WriteIdx() uint64 {
	return maple.currIndex.Load()
}
