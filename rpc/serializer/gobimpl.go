package serializer

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/ValentinKolb/sKV/rpc/common"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding.
// Every message is encoded by a fresh encoder, so each payload carries its own
// type description and decodes independently.
type gobSerializerImpl struct {
}

type gobRequest struct {
	Kind  uint8
	Key   string
	Value string
}

type gobResponse struct {
	Kind    uint8
	Message string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) SerializeRequest(req common.Request) ([]byte, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return gobEncode(gobRequest{Kind: uint8(req.Kind), Key: req.Key, Value: req.Value})
}

func (g gobSerializerImpl) DeserializeRequest(b []byte) (common.Request, error) {
	var wire gobRequest
	if err := gobDecode(b, &wire); err != nil {
		return common.Request{}, malformedRequest("%v", err)
	}

	req := common.Request{Kind: common.RequestKind(wire.Kind), Key: wire.Key, Value: wire.Value}
	if err := validateRequest(req); err != nil {
		return common.Request{}, err
	}
	return req, nil
}

func (g gobSerializerImpl) SerializeResponse(resp common.Response) ([]byte, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}
	return gobEncode(gobResponse{Kind: uint8(resp.Kind), Message: resp.Message})
}

func (g gobSerializerImpl) DeserializeResponse(b []byte) (common.Response, error) {
	var wire gobResponse
	if err := gobDecode(b, &wire); err != nil {
		return common.Response{}, malformedResponse("%v", err)
	}

	resp := common.Response{Kind: common.ResponseKind(wire.Kind), Message: wire.Message}
	if err := validateResponse(resp); err != nil {
		return common.Response{}, err
	}
	return resp, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gobDecode decodes exactly one value, trailing bytes are an error
func gobDecode(b []byte, v interface{}) error {
	r := bytes.NewReader(b)
	dec := gob.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if r.Len() != 0 {
		return errTrailingBytes
	}
	return nil
}

var errTrailingBytes = errors.New("trailing bytes after message")
