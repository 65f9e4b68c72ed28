package serializer

import (
	"encoding/binary"

	"github.com/ValentinKolb/sKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and size.
//
// Layout (all lengths uint32, big endian):
//
//	request:  kind(1) | keyLen(4) | key | [valueLen(4) | value]   (value only for Put)
//	response: kind(1) | msgLen(4) | message
//
// The input must be consumed exactly, trailing bytes are rejected.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Wire tags, independent of the in-memory kind values
const (
	tagGet byte = 'G'
	tagPut byte = 'P'
	tagOk  byte = 'O'
	tagErr byte = 'E'
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) SerializeRequest(req common.Request) ([]byte, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Calculate total size needed
	size := 1 + 4 + len(req.Key)
	if req.Kind == common.ReqPut {
		size += 4 + len(req.Value)
	}
	result := make([]byte, 0, size)

	if req.Kind == common.ReqGet {
		result = append(result, tagGet)
		result = appendString(result, req.Key)
	} else {
		result = append(result, tagPut)
		result = appendString(result, req.Key)
		result = appendString(result, req.Value)
	}
	return result, nil
}

func (b binarySerializerImpl) DeserializeRequest(data []byte) (common.Request, error) {
	if len(data) < 1 {
		return common.Request{}, malformedRequest("empty input")
	}

	var req common.Request
	switch data[0] {
	case tagGet:
		req.Kind = common.ReqGet
	case tagPut:
		req.Kind = common.ReqPut
	default:
		return common.Request{}, malformedRequest("unknown request tag 0x%02x", data[0])
	}

	// Read key
	key, pos, ok := readString(data, 1)
	if !ok {
		return common.Request{}, malformedRequest("data too short for key")
	}
	req.Key = key

	// Read value (Put only)
	if req.Kind == common.ReqPut {
		value, next, ok := readString(data, pos)
		if !ok {
			return common.Request{}, malformedRequest("data too short for value")
		}
		req.Value = value
		pos = next
	}

	if pos != len(data) {
		return common.Request{}, malformedRequest("%d trailing bytes", len(data)-pos)
	}

	if err := validateRequest(req); err != nil {
		return common.Request{}, err
	}
	return req, nil
}

func (b binarySerializerImpl) SerializeResponse(resp common.Response) ([]byte, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}

	result := make([]byte, 0, 1+4+len(resp.Message))
	if resp.Kind == common.RespOk {
		result = append(result, tagOk)
	} else {
		result = append(result, tagErr)
	}
	return appendString(result, resp.Message), nil
}

func (b binarySerializerImpl) DeserializeResponse(data []byte) (common.Response, error) {
	if len(data) < 1 {
		return common.Response{}, malformedResponse("empty input")
	}

	var resp common.Response
	switch data[0] {
	case tagOk:
		resp.Kind = common.RespOk
	case tagErr:
		resp.Kind = common.RespErr
	default:
		return common.Response{}, malformedResponse("unknown response tag 0x%02x", data[0])
	}

	msg, pos, ok := readString(data, 1)
	if !ok {
		return common.Response{}, malformedResponse("data too short for message")
	}
	if pos != len(data) {
		return common.Response{}, malformedResponse("%d trailing bytes", len(data)-pos)
	}
	resp.Message = msg
	return resp, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// appendString writes a length prefixed string
func appendString(dst []byte, s string) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// readString reads a length prefixed string starting at pos.
// It returns the string, the position after it and false if data is too short.
func readString(data []byte, pos int) (string, int, bool) {
	if pos+4 > len(data) {
		return "", pos, false
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if n < 0 || n > len(data)-pos {
		return "", pos, false
	}
	return string(data[pos : pos+n]), pos + n, true
}
