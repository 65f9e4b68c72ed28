package db

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplMaple  Implementation = "maple"
	ImplLocked Implementation = "locked"
)

// ParseImplementation converts an engine name (as used on the command line) to an Implementation
func ParseImplementation(name string) (Implementation, bool) {
	switch Implementation(name) {
	case ImplMaple:
		return ImplMaple, true
	case ImplLocked:
		return ImplLocked, true
	default:
		return "", false
	}
}

// ValueSizeInfo summarizes the sizes of all values written to a database
type ValueSizeInfo struct {
	Samples int64 `json:"samples"`
	Average int   `json:"average"`
	Median  int   `json:"median"`
	P99     int   `json:"p99"`
}

type DatabaseInfo struct {
	DbType     Implementation `json:"db_type"`
	Keys       int            `json:"keys"`
	WriteIdx   uint64         `json:"write_idx"`
	ValueSizes ValueSizeInfo  `json:"value_sizes"`
	Metadata   interface{}    `json:"metadata,omitempty"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines an interface for in-memory key-value database implementations.
//
// Every single Set or Get must be atomic with respect to every other Set or Get:
// a Get never observes a partially written value, and once Set returned every
// later Get for the same key observes that value or a newer one.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates an entry with the given key and value.
	// If the key already exists, the old value is overwritten.
	// The writeIndex parameter is used as a logical timestamp for the entry.
	Set(key string, value string, writeIndex uint64)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key string) (value string, loaded bool)

	// Len returns the number of keys stored in the database.
	Len() int

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// --------------------------------------------------------------------------
	// Write Index Operations
	// --------------------------------------------------------------------------

	// WriteIdx returns the highest write index applied to the database.
	WriteIdx() (index uint64)

	// Close closes the database.
	Close() (err error)
}
