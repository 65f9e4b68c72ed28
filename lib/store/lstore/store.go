package lstore

import (
	"sync/atomic"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

type storeImpl struct {
	db    db.KVDB
	index atomic.Uint64
}

// NewLocalStore creates a new local store instance backed by the database
// returned by factory. The store lives until the process exits; nothing is persisted.
func NewLocalStore(factory store.DBFactory) store.IStore {
	s := &storeImpl{
		db: factory(),
	}
	Logger.Debugf("created local store with %s engine", s.db.GetInfo().DbType)
	return s
}

// incAndGetIndex increments the index and returns the new value.
// It is used to ensure that each write operation has a unique index.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incAndGetIndex() uint64 {
	return s.index.Add(1)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (string, error) {
	val, ok := s.db.Get(key)
	if !ok {
		return "", store.NewError(store.RetCKeyNotFound, key)
	}
	return val, nil
}

func (s *storeImpl) Put(key, value string) error {
	s.db.Set(key, value, s.incAndGetIndex())
	return nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}
