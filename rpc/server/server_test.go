package server

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/serializer"
	"github.com/ValentinKolb/sKV/rpc/transport"
	"github.com/ValentinKolb/sKV/rpc/transport/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *RPCServer {
	return NewRPCServer(
		common.DefaultServerConfig(),
		tcp.NewTCPServerTransport(),
		serializer.NewJSONSerializer(),
		newTestStore(),
	)
}

func TestHandleScenario(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, `{"Ok":"Key-Value pair added: a - 1"}`, string(s.Handle([]byte(`{"Put":["a","1"]}`))))
	assert.Equal(t, `{"Ok":"1"}`, string(s.Handle([]byte(`{"Get":"a"}`))))
	assert.Equal(t, `{"Err":"Key not found: b"}`, string(s.Handle([]byte(`{"Get":"b"}`))))
}

func TestHandleMalformed(t *testing.T) {
	s := newTestServer()

	inputs := [][]byte{
		nil,
		[]byte(`{"Put":["a"]}`),
		[]byte(`{"Delete":"a"}`),
		[]byte(`{"Get":""}`),
		[]byte(`not json at all`),
		{0xff, 0x00, 0x13},
		[]byte(`{"Put":["k",null]}`),
		[]byte(`{"Get":null}`),
		[]byte(`{"Put":["k",1]}`),
		[]byte(`{"Get":"a","Get":"k"}`),
		[]byte(`{"Put":["a","1"],"Put":["k","2"]}`),
		[]byte("{\"Put\":[\"\xff\",\"secret\"]}"),
		[]byte("{\"Get\":\"\xfe\"}"),
		[]byte(`{"Get":"\ud800"}`),
		[]byte(`{"Put":["\udc00","v"]}`),
	}
	for _, input := range inputs {
		assert.Equal(t, `{"Err":"malformed request"}`, string(s.Handle(input)), "input %q", input)
	}

	// nothing reached the store
	info, err := s.store.GetDBInfo()
	require.NoError(t, err)
	assert.Equal(t, 0, info.Keys)
	assert.Equal(t, uint64(0), info.WriteIdx)
}

func TestHandleDistinctKeysStayDistinct(t *testing.T) {
	s := newTestServer()

	// keys that a lossy decoder would fold into the same replacement character
	assert.Equal(t, `{"Err":"malformed request"}`, string(s.Handle([]byte("{\"Put\":[\"\xff\",\"secret\"]}"))))
	assert.Equal(t, `{"Err":"malformed request"}`, string(s.Handle([]byte("{\"Get\":\"\xfe\"}"))))
	assert.Equal(t, `{"Err":"malformed request"}`, string(s.Handle([]byte(`{"Get":"\ud800"}`))))

	// the real replacement character is an ordinary key
	assert.Equal(t, "{\"Ok\":\"Key-Value pair added: \ufffd - v\"}", string(s.Handle([]byte(`{"Put":["\ufffd","v"]}`))))
	assert.Equal(t, `{"Err":"Key not found: 😀"}`, string(s.Handle([]byte(`{"Get":"\ud83d\ude00"}`))))
	assert.Equal(t, `{"Ok":"v"}`, string(s.Handle([]byte("{\"Get\":\"\uFFFD\"}"))))

	info, err := s.store.GetDBInfo()
	require.NoError(t, err)
	assert.Equal(t, 1, info.Keys)
}

func TestHandleTransportErrors(t *testing.T) {
	s := newTestServer()

	resp := s.handleTransport(nil, transport.ErrRequestTooLarge)
	assert.Equal(t, `{"Err":"request too large"}`, string(resp))

	resp = s.handleTransport(nil, errors.New("connection reset by peer"))
	assert.Equal(t, `{"Err":"failed to read request"}`, string(resp))
}

func TestHandleWithBinarySerializer(t *testing.T) {
	ser := serializer.NewBinarySerializer()
	s := NewRPCServer(common.DefaultServerConfig(), tcp.NewTCPServerTransport(), ser, newTestStore())

	req, err := ser.SerializeRequest(*common.NewPutRequest("a", "1"))
	require.NoError(t, err)

	resp, err := ser.DeserializeResponse(s.Handle(req))
	require.NoError(t, err)
	assert.Equal(t, *common.NewOkResponse("Key-Value pair added: a - 1"), resp)
}

func TestHandleBinaryKeysStayDistinct(t *testing.T) {
	ser := serializer.NewBinarySerializer()
	s := NewRPCServer(common.DefaultServerConfig(), tcp.NewTCPServerTransport(), ser, newTestStore())

	do := func(req *common.Request) common.Response {
		data, err := ser.SerializeRequest(*req)
		require.NoError(t, err)
		resp, err := ser.DeserializeResponse(s.Handle(data))
		require.NoError(t, err)
		return resp
	}

	putResp := do(common.NewPutRequest("\xff", "secret"))
	require.True(t, putResp.IsOk())

	resp := do(common.NewGetRequest("\xfe"))
	assert.False(t, resp.IsOk())
	assert.Equal(t, "Key not found: \xfe", resp.Message)

	assert.Equal(t, *common.NewOkResponse("secret"), do(common.NewGetRequest("\xff")))
}

func TestMetrics(t *testing.T) {
	s := newTestServer()

	s.Handle([]byte(`{"Put":["a","1"]}`))
	s.Handle([]byte(`{"Get":"a"}`))
	s.Handle([]byte(`{"Get":"b"}`))
	s.Handle([]byte(`{"Get":1}`))

	var buf bytes.Buffer
	s.metrics.set.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, `skv_requests_total{kind="put",outcome="ok"} 1`)
	assert.Contains(t, out, `skv_requests_total{kind="get",outcome="ok"} 1`)
	assert.Contains(t, out, `skv_requests_total{kind="get",outcome="not_found"} 1`)
	assert.Contains(t, out, `skv_requests_total{kind="unknown",outcome="malformed"} 1`)
	assert.Contains(t, out, `skv_store_keys 1`)
}

func TestBindFailureIsReported(t *testing.T) {
	first := newTestServer()
	first.config.Endpoint = "127.0.0.1:0"
	require.NoError(t, first.Bind())
	defer first.Close()

	conf := common.DefaultServerConfig()
	conf.Endpoint = first.Addr().String()
	second := NewRPCServer(conf, tcp.NewTCPServerTransport(), serializer.NewJSONSerializer(), newTestStore())
	assert.Error(t, second.Serve())
}
