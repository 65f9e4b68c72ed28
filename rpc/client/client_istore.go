package client

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/serializer"
	"github.com/ValentinKolb/sKV/rpc/transport"
)

// keyNotFoundPrefix is the message prefix of the server's Get miss response
const keyNotFoundPrefix = "Key not found: "

var _ store.IStore = (*RPCStore)(nil)

// RPCStore is a store.IStore talking to a sKV server
type RPCStore struct {
	rpcClientAdapter
}

// NewRPCStore creates a new RPC store
// The function takes a config, a transport and a serializer as parameters.
// The serializer must match the one used by the server.
func NewRPCStore(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCStore, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &RPCStore{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

// Do sends a single request and returns the raw response of the server
func (i *RPCStore) Do(req common.Request) (common.Response, error) {
	return invokeRPCRequest(req, i.transport, i.serializer)
}

// Close releases the transport
func (i *RPCStore) Close() error {
	return i.transport.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *RPCStore) Get(key string) (string, error) {
	resp, err := i.Do(*common.NewGetRequest(key))
	if err != nil {
		return "", err
	}
	if resp.IsOk() {
		return resp.Message, nil
	}
	if strings.HasPrefix(resp.Message, keyNotFoundPrefix) {
		return "", store.NewError(store.RetCKeyNotFound, key)
	}
	return "", store.NewError(store.RetCInternalError, resp.Message)
}

func (i *RPCStore) Put(key, value string) error {
	resp, err := i.Do(*common.NewPutRequest(key, value))
	if err != nil {
		return err
	}
	if !resp.IsOk() {
		return store.NewError(store.RetCInternalError, resp.Message)
	}
	return nil
}

// GetDBInfo is not implemented for rpc
func (i *RPCStore) GetDBInfo() (db.DatabaseInfo, error) {
	return db.DatabaseInfo{}, fmt.Errorf("the GetDBInfo() method is not implemented in the rpc client")
}
