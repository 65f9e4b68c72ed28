package serializer

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

func testRequests() []common.Request {
	return []common.Request{
		*common.NewGetRequest("a"),
		*common.NewPutRequest("a", "1"),
		*common.NewPutRequest("key with spaces", ""),
		*common.NewPutRequest("ümlaut-ключ", "<html>&\"quotes\"\n"),
		*common.NewPutRequest("emoji-😀", "\\ud800 stays literal"),
	}
}

func testResponses() []common.Response {
	return []common.Response{
		*common.NewOkResponse("1"),
		*common.NewOkResponse("Key-Value pair added: a - 1"),
		*common.NewOkResponse(""),
		*common.NewErrResponse("Key not found: b"),
		*common.NewErrResponse("malformed request"),
	}
}

func TestRequestRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			for _, req := range testRequests() {
				data, err := s.SerializeRequest(req)
				require.NoError(t, err)

				decoded, err := s.DeserializeRequest(data)
				require.NoError(t, err)
				assert.Equal(t, req, decoded)
			}
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			for _, resp := range testResponses() {
				data, err := s.SerializeResponse(resp)
				require.NoError(t, err)

				decoded, err := s.DeserializeResponse(data)
				require.NoError(t, err)
				assert.Equal(t, resp, decoded)
			}
		})
	}
}

func TestDeterministicEncoding(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			for _, resp := range testResponses() {
				first, err := factory().SerializeResponse(resp)
				require.NoError(t, err)
				second, err := factory().SerializeResponse(resp)
				require.NoError(t, err)
				assert.Equal(t, first, second)
			}
		})
	}
}

func TestJSONWireShape(t *testing.T) {
	s := NewJSONSerializer()

	cases := []struct {
		req  common.Request
		wire string
	}{
		{*common.NewGetRequest("a"), `{"Get":"a"}`},
		{*common.NewPutRequest("a", "1"), `{"Put":["a","1"]}`},
		{*common.NewPutRequest("<k>", "&"), `{"Put":["<k>","&"]}`},
	}
	for _, tc := range cases {
		data, err := s.SerializeRequest(tc.req)
		require.NoError(t, err)
		assert.Equal(t, tc.wire, string(data))
	}

	data, err := s.SerializeResponse(*common.NewOkResponse("1"))
	require.NoError(t, err)
	assert.Equal(t, `{"Ok":"1"}`, string(data))

	data, err = s.SerializeResponse(*common.NewErrResponse("Key not found: b"))
	require.NoError(t, err)
	assert.Equal(t, `{"Err":"Key not found: b"}`, string(data))

	// whitespace from other encoders is accepted
	req, err := s.DeserializeRequest([]byte("{ \"Put\" : [ \"a\" , \"1\" ] }\n"))
	require.NoError(t, err)
	assert.Equal(t, *common.NewPutRequest("a", "1"), req)
}

func TestMalformedJSONRequests(t *testing.T) {
	s := NewJSONSerializer()

	inputs := map[string]string{
		"empty":            ``,
		"truncated":        `{"Get":"a`,
		"not an object":    `["Get","a"]`,
		"null":             `null`,
		"no tag":           `{}`,
		"two tags":         `{"Get":"a","Put":["a","1"]}`,
		"unknown tag":      `{"Delete":"a"}`,
		"put one element":  `{"Put":["a"]}`,
		"put three":        `{"Put":["a","1","2"]}`,
		"put not an array": `{"Put":"a"}`,
		"get not a string": `{"Get":1}`,
		"empty key":        `{"Get":""}`,
		"empty put key":    `{"Put":["","v"]}`,
		"trailing garbage": `{"Get":"a"}x`,
		"lowercase tag":    `{"get":"a"}`,

		"put null value":       `{"Put":["k",null]}`,
		"put null key":         `{"Put":[null,"v"]}`,
		"get null":             `{"Get":null}`,
		"put number element":   `{"Put":["k",1]}`,
		"put nested array":     `{"Put":["k",["v"]]}`,
		"put object element":   `{"Put":["k",{"v":"w"}]}`,
		"duplicate tag":        `{"Get":"a","Get":"k"}`,
		"duplicate put tag":    `{"Put":["a","1"],"Put":["k","2"]}`,
		"invalid utf-8 key":    "{\"Get\":\"\xff\"}",
		"invalid utf-8 value":  "{\"Put\":[\"k\",\"\xfe\"]}",
		"invalid utf-8 tag":    "{\"G\xffet\":\"k\"}",
		"lone high surrogate":  `{"Get":"\ud800"}`,
		"lone low surrogate":   `{"Get":"\udc00"}`,
		"high then non-low":    `{"Get":"\ud800\u0041"}`,
		"high then high":       `{"Put":["k","\ud800\ud800"]}`,
		"surrogate at the end": `{"Get":"x\uD83D"}`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := s.DeserializeRequest([]byte(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRequest))
		})
	}
}

func TestJSONEscapes(t *testing.T) {
	s := NewJSONSerializer()

	// a surrogate pair is a single rune
	req, err := s.DeserializeRequest([]byte(`{"Get":"\ud83d\ude00"}`))
	require.NoError(t, err)
	assert.Equal(t, "😀", req.Key)

	// an escaped backslash is not the start of an escape
	req, err = s.DeserializeRequest([]byte(`{"Put":["\\ud800","\u00fc"]}`))
	require.NoError(t, err)
	assert.Equal(t, *common.NewPutRequest(`\ud800`, "ü"), req)
}

func TestJSONRejectsInvalidUTF8(t *testing.T) {
	s := NewJSONSerializer()

	_, err := s.SerializeRequest(*common.NewPutRequest("\xff", "secret"))
	assert.ErrorIs(t, err, ErrMalformedRequest)

	_, err = s.SerializeRequest(*common.NewPutRequest("k", "\xfe"))
	assert.ErrorIs(t, err, ErrMalformedRequest)

	_, err = s.DeserializeResponse([]byte("{\"Ok\":\"\xff\"}"))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = s.DeserializeResponse([]byte(`{"Ok":"\ud800"}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = s.DeserializeResponse([]byte(`{"Ok":"a","Err":"b"}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestMalformedInputAllSerializers(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			_, err := s.DeserializeRequest(nil)
			assert.ErrorIs(t, err, ErrMalformedRequest)

			_, err = s.DeserializeResponse(nil)
			assert.ErrorIs(t, err, ErrMalformedResponse)

			// truncated valid payload
			data, err := s.SerializeRequest(*common.NewPutRequest("key", "value"))
			require.NoError(t, err)
			_, err = s.DeserializeRequest(data[:len(data)-1])
			assert.ErrorIs(t, err, ErrMalformedRequest)

			// trailing bytes
			_, err = s.DeserializeRequest(append(data, 0))
			assert.ErrorIs(t, err, ErrMalformedRequest)
		})
	}
}

func TestSerializeRejectsInvalid(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			_, err := s.SerializeRequest(common.Request{Kind: common.ReqGet})
			assert.ErrorIs(t, err, ErrMalformedRequest)

			_, err = s.SerializeRequest(common.Request{Kind: common.ReqUnknown, Key: "a"})
			assert.ErrorIs(t, err, ErrMalformedRequest)

			_, err = s.SerializeResponse(common.Response{Kind: 7})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	s := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{"Empty data", []byte{}, true},
		{"Tag only", []byte{tagGet}, true},
		{"Unknown tag", []byte{'X', 0, 0, 0, 1, 'a'}, true},
		{"Valid get", []byte{tagGet, 0, 0, 0, 1, 'a'}, false},
		{"Empty key", []byte{tagGet, 0, 0, 0, 0}, true},
		{"Invalid length for key", []byte{tagGet, 0, 0, 0, 5, 'a', 'b', 'c'}, true},
		{"Put without value", []byte{tagPut, 0, 0, 0, 1, 'a'}, true},
		{"Invalid length for value", []byte{tagPut, 0, 0, 0, 1, 'a', 0, 0, 0, 10}, true},
		{"Huge length", []byte{tagPut, 0xff, 0xff, 0xff, 0xff, 'a'}, true},
		{"Valid put", []byte{tagPut, 0, 0, 0, 1, 'a', 0, 0, 0, 1, '1'}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.DeserializeRequest(tc.data)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrMalformedRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGOBGetWithValueRejected(t *testing.T) {
	data, err := gobEncode(gobRequest{Kind: uint8(common.ReqGet), Key: "a", Value: "x"})
	require.NoError(t, err)

	_, err = NewGOBSerializer().DeserializeRequest(data)
	assert.ErrorIs(t, err, ErrMalformedRequest)
}
