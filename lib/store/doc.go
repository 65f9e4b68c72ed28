// Package store provides the high-level interface of the sKV key-value store.
// It serves as an abstraction layer over the lower-level db.KVDB engines, adding
// write index management and standardized error reporting.
//
// Key Components:
//
//   - IStore Interface: The two operations of the store. Get returns the value of a
//     key or an error matching ErrKeyNotFound. Put inserts or silently overwrites a
//     value and always succeeds for the local implementation. GetDBInfo exposes
//     statistics of the underlying engine.
//
//   - Error System: Error carries a RetCode and a message. Errors compare equal under
//     errors.Is when their codes match, so callers check for a missing key with
//     errors.Is(err, store.ErrKeyNotFound) no matter which message it carries.
//
//   - DBFactory: A function type that abstracts the creation of the underlying
//     db.KVDB instance, so the engine can be chosen at startup.
//
// Implementations:
//
//   - Local Store (lstore): wraps one db.KVDB and hands out a monotonically
//     increasing write index for every Put.
//     Available in the "github.com/ValentinKolb/sKV/lib/store/lstore" package.
//
// A missing key is a normal outcome, not a failure of the store: the RPC server
// turns it into an Err response and the connection still completes normally.
package store
