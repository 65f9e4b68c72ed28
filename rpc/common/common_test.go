package common

import (
	"encoding/json"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestKindJSON(t *testing.T) {
	for _, kind := range []RequestKind{ReqGet, ReqPut} {
		data, err := json.Marshal(kind)
		require.NoError(t, err)

		var decoded RequestKind
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, kind, decoded)
	}

	var kind RequestKind
	assert.Error(t, json.Unmarshal([]byte(`"Delete"`), &kind))
}

func TestResponseKindJSON(t *testing.T) {
	data, err := json.Marshal(RespErr)
	require.NoError(t, err)
	assert.Equal(t, `"Err"`, string(data))

	var kind ResponseKind
	require.NoError(t, json.Unmarshal([]byte(`"Ok"`), &kind))
	assert.Equal(t, RespOk, kind)
	assert.Error(t, json.Unmarshal([]byte(`"Maybe"`), &kind))
}

func TestMessageFactories(t *testing.T) {
	get := NewGetRequest("a")
	assert.Equal(t, ReqGet, get.Kind)
	assert.Equal(t, `Get("a")`, get.String())

	put := NewPutRequest("a", "1")
	assert.Equal(t, ReqPut, put.Kind)
	assert.Equal(t, `Put("a", "1")`, put.String())

	assert.True(t, NewOkResponse("x").IsOk())
	assert.False(t, NewErrResponse("x").IsOk())
	assert.Equal(t, `Err("x")`, NewErrResponse("x").String())
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, logger.WARNING, lvl)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestConfigString(t *testing.T) {
	conf := DefaultServerConfig()
	out := conf.String()
	assert.Contains(t, out, DefaultEndpoint)
	assert.Contains(t, out, "maple")
	assert.Contains(t, out, "disabled")

	client := ClientConfig{Transport: ClientTransportConfig{Endpoints: []string{"a:1", "b:2"}, RetryCount: 3}}
	out = client.String()
	assert.Contains(t, out, "a:1")
	assert.Contains(t, out, "b:2")
}
