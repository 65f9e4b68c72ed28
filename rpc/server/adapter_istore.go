package server

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
)

// Response messages
const (
	MsgKeyNotFound      = "Key not found: "
	MsgPairAdded        = "Key-Value pair added: "
	MsgMalformedRequest = "malformed request"
	MsgRequestTooLarge  = "request too large"
	MsgReadFailed       = "failed to read request"
)

// NewIStoreServerAdapter creates the adapter translating requests to store.IStore calls
func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(req *common.Request, s store.IStore) *common.Response {
	if s == nil {
		return common.NewErrResponse("handler: store is nil")
	}

	switch req.Kind {
	case common.ReqGet:
		val, err := s.Get(req.Key)
		if errors.Is(err, store.ErrKeyNotFound) {
			return common.NewErrResponse(MsgKeyNotFound + req.Key)
		}
		if err != nil {
			return common.NewErrResponse(err.Error())
		}
		return common.NewOkResponse(val)
	case common.ReqPut:
		if err := s.Put(req.Key, req.Value); err != nil {
			return common.NewErrResponse(err.Error())
		}
		return common.NewOkResponse(fmt.Sprintf("%s%s - %s", MsgPairAdded, req.Key, req.Value))
	default:
		return common.NewErrResponse(
			fmt.Sprintf("RPC IStoreAdapter - Unsupported request kind: %s", req.Kind),
		)
	}
}
