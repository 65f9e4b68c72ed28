// Package util provides helpers shared by the db.KVDB engines: seeded FNV-1a
// hashing to spread keys over shards, DistributionStats to report how even
// that spread is, and a SizeSampler summarizing value sizes for GetInfo.
package util
