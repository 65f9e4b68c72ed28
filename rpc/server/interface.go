package server

import (
	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters.
// It maps a decoded request to exactly one response.
type IRPCServerAdapter interface {
	// Handle executes req against store and returns the response.
	// Failures are reported as Err responses, never as a nil response.
	Handle(req *common.Request, store store.IStore) (resp *common.Response)
}
