package store

import (
	"fmt"

	"github.com/ValentinKolb/sKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.KVDB

// IStore is the interface for interacting with a key–value store.
// Implementations must be safe for concurrent use and every single Get or Put
// must be linearizable with respect to all others.
type IStore interface {
	// Get returns the current value for a key.
	// If no value exists, the returned error matches ErrKeyNotFound (use errors.Is).
	Get(key string) (value string, err error)
	// Put inserts or overwrites the value for a key.
	Put(key, value string) (err error)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a store error with the same return code,
// so errors.Is(err, ErrKeyNotFound) matches any KeyNotFound error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ErrKeyNotFound is the sentinel for Get on an absent key.
var ErrKeyNotFound = &Error{Code: RetCKeyNotFound, Msg: "key not found"}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation.
	RetCKeyNotFound                     // 3: The requested key does not exist.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCKeyNotFound:
		return "KeyNotFound"
	default:
		return "Unknown"
	}
}
