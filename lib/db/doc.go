// Package db defines the storage engine abstraction used by the sKV store.
//
// An engine is an in-memory mapping from string keys to string values that is
// safe for concurrent use. The package itself only contains the KVDB interface
// and a few descriptive types, the implementations live in the engines
// subpackages:
//
//   - maple: built on xsync.MapOf, a concurrent hash map with per-bucket locking.
//     Reads are lock free and writes to different keys rarely contend. This is
//     the default engine.
//
//   - locked: a plain Go map guarded by a single sync.RWMutex that is held for the
//     full duration of every Get and Set. Simple and obviously linearizable, at
//     the cost of serializing all writers.
//
// Both engines provide the same guarantees:
//
//   - Set overwrites silently and never fails (there is no capacity limit)
//   - Get never observes a value that is only partially written
//   - once Set returned, every later Get for that key observes the new value
//     (or a value written even later)
//
// The testing subpackage contains a conformance suite (RunKVDBTests) that every
// engine runs from its own tests, plus a set of benchmarks (RunKVDBBenchmarks).
//
// Usage:
//
//	database := maple.NewMapleDB(nil)
//	database.Set("a", "1", 1)
//	value, ok := database.Get("a") // "1", true
package db
