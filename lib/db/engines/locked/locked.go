// Package locked implements a db.KVDB engine backed by a plain map that is
// guarded by one sync.RWMutex. The lock is held for the full duration of every
// Get and Set, so all operations on the engine are trivially linearizable.
package locked

import (
	"sync"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/ValentinKolb/sKV/lib/db/util"
)

type entry struct {
	value string
	index uint64
}

type lockedImpl struct {
	mu       sync.RWMutex
	data     map[string]entry
	writeIdx uint64
}

// Compile-time check to ensure lockedImpl implements db.KVDB
var _ db.KVDB = (*lockedImpl)(nil)

// NewLockedDB creates a new empty engine
func NewLockedDB() db.KVDB {
	return &lockedImpl{
		data: make(map[string]entry),
	}
}

// Set overwrites the value of key. Writes with a lower index than the stored
// entry are ignored.
func (l *lockedImpl) Set(key string, value string, writeIndex uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if writeIndex > l.writeIdx {
		l.writeIdx = writeIndex
	}
	if old, ok := l.data[key]; ok && writeIndex < old.index {
		return
	}
	l.data[key] = entry{value: value, index: writeIndex}
}

func (l *lockedImpl) Get(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.data[key]
	return e.value, ok
}

func (l *lockedImpl) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.data)
}

// GetInfo returns statistics about the database, value sizes are computed from all entries
func (l *lockedImpl) GetInfo() db.DatabaseInfo {
	l.mu.RLock()
	keys := len(l.data)
	sizes := util.NewSizeSampler(keys)
	writeIdx := l.writeIdx
	for _, e := range l.data {
		sizes.Add(len(e.value))
	}
	l.mu.RUnlock()

	return db.DatabaseInfo{
		DbType:     db.ImplLocked,
		Keys:       keys,
		WriteIdx:   writeIdx,
		ValueSizes: sizes.Info(),
	}
}

func (l *lockedImpl) WriteIdx() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.writeIdx
}

func (l *lockedImpl) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data = make(map[string]entry)
	return nil
}
