package serializer

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/sKV/rpc/common"
)

var (
	// ErrMalformedRequest is returned (wrapped) when bytes do not decode to a valid request
	ErrMalformedRequest = errors.New("malformed request")
	// ErrMalformedResponse is returned (wrapped) when bytes do not decode to a valid response
	ErrMalformedResponse = errors.New("malformed response")
)

// IRPCSerializer is the interface for all request and response serializers.
// Implementations are pure transforms without I/O and must be deterministic:
// serializing equal values yields byte-identical output.
type IRPCSerializer interface {
	// SerializeRequest serializes a Request into a byte array
	SerializeRequest(req common.Request) ([]byte, error)
	// DeserializeRequest decodes exactly one Request from b.
	// Every failure matches ErrMalformedRequest (use errors.Is).
	DeserializeRequest(b []byte) (common.Request, error)
	// SerializeResponse serializes a Response into a byte array
	SerializeResponse(resp common.Response) ([]byte, error)
	// DeserializeResponse decodes exactly one Response from b.
	// Every failure matches ErrMalformedResponse (use errors.Is).
	DeserializeResponse(b []byte) (common.Response, error)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func malformedRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}

func malformedResponse(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// validateRequest checks the invariants every decoded request has to satisfy
func validateRequest(req common.Request) error {
	switch req.Kind {
	case common.ReqGet:
		if req.Value != "" {
			return malformedRequest("get request must not carry a value")
		}
	case common.ReqPut:
	default:
		return malformedRequest("unknown request kind %d", req.Kind)
	}
	if req.Key == "" {
		return malformedRequest("empty key")
	}
	return nil
}

func validateResponse(resp common.Response) error {
	if resp.Kind != common.RespOk && resp.Kind != common.RespErr {
		return malformedResponse("unknown response kind %d", resp.Kind)
	}
	return nil
}
