// Package maple implements the default db.KVDB engine of sKV.
//
// The key space is split into shards (one per CPU by default). A key is mapped
// to its shard with a seeded FNV-1a hash, and every shard stores its entries in
// an xsync.MapOf keyed by the original string, so hash collisions between
// keys can never mix up their values.
//
// Concurrency:
//
//   - Get is a lock free Load on the shard map and always returns a complete value.
//   - Set runs inside MapOf.Compute, which holds the bucket lock of the key for the
//     whole read-modify-write. Two Sets for the same key are therefore serialized,
//     Sets for different keys usually proceed in parallel.
//   - Every entry remembers the write index it was written with. A Set carrying an
//     index lower than the stored one is treated as stale and ignored, so the
//     final value of a key is the one with the highest write index.
//
// GetInfo samples up to 100 entries per shard to estimate the value size
// distribution and reports how evenly the keys are spread over the shards.
package maple
