package server

import (
	"testing"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/ValentinKolb/sKV/lib/db/engines/maple"
	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/lib/store/lstore"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/stretchr/testify/assert"
)

func newTestStore() store.IStore {
	return lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) })
}

func TestIStoreAdapter(t *testing.T) {
	adapter := NewIStoreServerAdapter()
	s := newTestStore()

	resp := adapter.Handle(common.NewGetRequest("a"), s)
	assert.Equal(t, common.NewErrResponse("Key not found: a"), resp)

	resp = adapter.Handle(common.NewPutRequest("a", "1"), s)
	assert.Equal(t, common.NewOkResponse("Key-Value pair added: a - 1"), resp)

	resp = adapter.Handle(common.NewGetRequest("a"), s)
	assert.Equal(t, common.NewOkResponse("1"), resp)

	// last writer wins
	adapter.Handle(common.NewPutRequest("a", "2"), s)
	resp = adapter.Handle(common.NewGetRequest("a"), s)
	assert.Equal(t, common.NewOkResponse("2"), resp)
}

func TestIStoreAdapterPutEmptyValue(t *testing.T) {
	adapter := NewIStoreServerAdapter()
	s := newTestStore()

	resp := adapter.Handle(common.NewPutRequest("k", ""), s)
	assert.Equal(t, common.NewOkResponse("Key-Value pair added: k - "), resp)

	resp = adapter.Handle(common.NewGetRequest("k"), s)
	assert.Equal(t, common.NewOkResponse(""), resp)
}

func TestIStoreAdapterInvalid(t *testing.T) {
	adapter := NewIStoreServerAdapter()

	resp := adapter.Handle(&common.Request{Kind: common.ReqUnknown, Key: "a"}, newTestStore())
	assert.False(t, resp.IsOk())

	resp = adapter.Handle(common.NewGetRequest("a"), nil)
	assert.False(t, resp.IsOk())
}
