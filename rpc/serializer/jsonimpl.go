package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ValentinKolb/sKV/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Messages are externally tagged objects with exactly one field:
//
//	{"Get":"k"}  {"Put":["k","v"]}  {"Ok":"m"}  {"Err":"m"}
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) SerializeRequest(req common.Request) ([]byte, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	// encoding/json would silently replace invalid bytes with U+FFFD
	if !utf8.ValidString(req.Key) || !utf8.ValidString(req.Value) {
		return nil, malformedRequest("json requests must be valid utf-8")
	}
	if req.Kind == common.ReqGet {
		return marshalTagged(req.Kind.String(), req.Key)
	}
	return marshalTagged(req.Kind.String(), [2]string{req.Key, req.Value})
}

func (j jsonSerializerImpl) DeserializeRequest(b []byte) (common.Request, error) {
	tagged, err := unmarshalTagged(b)
	if err != nil {
		return common.Request{}, malformedRequest("%v", err)
	}

	kind, err := common.ParseRequestKind(tagged.tag)
	if err != nil {
		return common.Request{}, malformedRequest("%v", err)
	}

	req := common.Request{Kind: kind}
	switch kind {
	case common.ReqGet:
		if tagged.isArray {
			return common.Request{}, malformedRequest("get payload must be a string")
		}
		req.Key = tagged.values[0]
	case common.ReqPut:
		if !tagged.isArray {
			return common.Request{}, malformedRequest("put payload must be an array")
		}
		if len(tagged.values) != 2 {
			return common.Request{}, malformedRequest("put expects 2 elements, got %d", len(tagged.values))
		}
		req.Key, req.Value = tagged.values[0], tagged.values[1]
	}

	if err := validateRequest(req); err != nil {
		return common.Request{}, err
	}
	return req, nil
}

func (j jsonSerializerImpl) SerializeResponse(resp common.Response) ([]byte, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}
	return marshalTagged(resp.Kind.String(), resp.Message)
}

func (j jsonSerializerImpl) DeserializeResponse(b []byte) (common.Response, error) {
	tagged, err := unmarshalTagged(b)
	if err != nil {
		return common.Response{}, malformedResponse("%v", err)
	}

	kind, err := common.ParseResponseKind(tagged.tag)
	if err != nil {
		return common.Response{}, malformedResponse("%v", err)
	}
	if tagged.isArray {
		return common.Response{}, malformedResponse("payload must be a string")
	}

	return common.Response{Kind: kind, Message: tagged.values[0]}, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// marshalTagged encodes {"<tag>": payload} without html escaping and without trailing newline
func marshalTagged(tag string, payload interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]interface{}{tag: payload}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// taggedValue is a decoded {"<tag>": "s"} or {"<tag>": ["s", ...]}
type taggedValue struct {
	tag     string
	values  []string
	isArray bool
}

// unmarshalTagged decodes an object with exactly one field whose value is a
// string or an array of strings. Unlike json.Unmarshal it rejects everything
// that would be silently rewritten: duplicate fields, null elements, invalid
// utf-8 and unpaired surrogate escapes.
func unmarshalTagged(b []byte) (taggedValue, error) {
	var tv taggedValue

	if !utf8.Valid(b) {
		return tv, errors.New("invalid utf-8")
	}
	if err := checkSurrogates(b); err != nil {
		return tv, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if err := expectDelim(dec, '{'); err != nil {
		return tv, err
	}

	tok, err := dec.Token()
	if err != nil {
		return tv, err
	}
	tag, ok := tok.(string)
	if !ok {
		return tv, errors.New("expected exactly one variant tag")
	}
	tv.tag = tag

	tok, err = dec.Token()
	if err != nil {
		return tv, err
	}
	switch v := tok.(type) {
	case string:
		tv.values = []string{v}
	case json.Delim:
		if v != '[' {
			return tv, fmt.Errorf("unexpected %v in payload", v)
		}
		tv.isArray = true
		for dec.More() {
			if tok, err = dec.Token(); err != nil {
				return tv, err
			}
			s, ok := tok.(string)
			if !ok {
				return tv, fmt.Errorf("element %d is not a string", len(tv.values))
			}
			tv.values = append(tv.values, s)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return tv, err
		}
	default:
		return tv, fmt.Errorf("payload must be a string or an array, got %v", tok)
	}

	// a second field (or a repeated tag) ends up here
	if err := expectDelim(dec, '}'); err != nil {
		return tv, fmt.Errorf("expected exactly one variant tag: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return tv, errors.New("trailing data after message")
	}
	return tv, nil
}

// expectDelim reads the next token and fails unless it is delim
func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != delim {
		return fmt.Errorf("expected %v, got %v", delim, tok)
	}
	return nil
}

// checkSurrogates fails on \u escapes of a surrogate half that is not part of
// a high/low pair. encoding/json decodes those to U+FFFD.
func checkSurrogates(b []byte) error {
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			continue
		}
		if b[i+1] != 'u' {
			i++ // skip the escaped character
			continue
		}
		r, ok := hexRune(b, i+2)
		if !ok {
			return nil // left to the decoder
		}
		switch {
		case utf16.IsSurrogate(r) && r < 0xdc00:
			low, ok := hexRune(b, i+8)
			if !ok || i+7 >= len(b) || b[i+6] != '\\' || b[i+7] != 'u' || low < 0xdc00 || low > 0xdfff {
				return fmt.Errorf("unpaired surrogate escape at offset %d", i)
			}
			i += 11
		case utf16.IsSurrogate(r):
			return fmt.Errorf("unpaired surrogate escape at offset %d", i)
		default:
			i += 5
		}
	}
	return nil
}

// hexRune parses the four hex digits at b[at:at+4]
func hexRune(b []byte, at int) (rune, bool) {
	if at+4 > len(b) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[at:at+4]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
