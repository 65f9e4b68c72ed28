// Package lstore implements the local, in-memory, single-node store.IStore.
// It is a thin wrapper around any db.KVDB implementation with automatic write
// index management. Data is stored entirely in memory and is lost when the
// process exits.
//
// Implementation Details:
//
//   - Write Index Management: The store maintains an atomic counter that is
//     incremented for every Put. The index is passed to the engine as the logical
//     timestamp of the write.
//
//   - Missing keys: a Get on an absent key returns a *store.Error with code
//     RetCKeyNotFound whose message is the key, so errors.Is(err, store.ErrKeyNotFound)
//     holds.
//
//   - Composition Architecture: the engine is injected through a store.DBFactory,
//     so the store works with any db.KVDB-compatible engine without modification.
//
// Thread Safety:
//
//	All operations are thread-safe. The write index is an atomic counter, the
//	linearizability of the individual Get and Put calls is provided by the engine.
//
// Usage Example:
//
//	s := lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) })
//	_ = s.Put("a", "1")
//	value, err := s.Get("a") // "1", nil
//	_, err = s.Get("b")      // errors.Is(err, store.ErrKeyNotFound) == true
package lstore
