package client

import (
	"fmt"

	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/serializer"
	"github.com/ValentinKolb/sKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("client")
)

// rpcClientAdapter stores everything needed to send requests to a server
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest serializes req, sends it over the transport and decodes the response.
// An Err response is not an error here, the caller interprets it.
func invokeRPCRequest(req common.Request, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (common.Response, error) {
	reqBytes, err := serializer.SerializeRequest(req)
	if err != nil {
		return common.Response{}, err
	}

	respBytes, err := transport.Send(reqBytes)
	if err != nil {
		return common.Response{}, err
	}

	resp, err := serializer.DeserializeResponse(respBytes)
	if err != nil {
		return common.Response{}, fmt.Errorf("RPC client - invalid response: %w", err)
	}

	Logger.Debugf("%s -> %s", req.String(), resp.String())
	return resp, nil
}
