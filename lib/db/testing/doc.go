// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - RunKVDBTests: a conformance suite covering the KVDB contract, including
//     last-writer-wins overwrites, write index handling and the concurrency
//     guarantees (no lost writes across keys, no partial values under contention)
//   - RunKVDBBenchmarks: throughput benchmarks for the common operations
//
// Example usage:
//
//	factory := func() db.KVDB {
//		return NewMyDatabase()
//	}
//
//	dbtesting.RunKVDBTests(t, "MyDatabase", factory)
//	dbtesting.RunKVDBBenchmarks(b, "MyDatabase", factory)
package testing
