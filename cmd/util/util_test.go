package util

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 40)
	wrapped := WrapString(text)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(wrapped))
	assert.Equal(t, "", WrapString(""))
}

func TestGetSerializer(t *testing.T) {
	t.Cleanup(viper.Reset)

	for _, name := range []string{"json", "gob", "binary"} {
		viper.Set("serializer", name)
		s, err := GetSerializer()
		require.NoError(t, err)
		assert.NotNil(t, s)
	}

	viper.Set("serializer", "xml")
	_, err := GetSerializer()
	assert.Error(t, err)
}

func TestGetTransport(t *testing.T) {
	t.Cleanup(viper.Reset)

	for _, name := range []string{"tcp", "unix"} {
		viper.Set("transport", name)
		_, err := GetClientTransport()
		require.NoError(t, err)
		_, err = GetServerTransport()
		require.NoError(t, err)
	}

	viper.Set("transport", "http")
	_, err := GetClientTransport()
	assert.Error(t, err)
	_, err = GetServerTransport()
	assert.Error(t, err)
}

func TestGetDBFactory(t *testing.T) {
	for _, engine := range []db.Implementation{db.ImplMaple, db.ImplLocked} {
		factory, err := GetDBFactory(string(engine))
		require.NoError(t, err)
		assert.Equal(t, engine, factory().GetInfo().DbType)
	}

	_, err := GetDBFactory("btree")
	assert.Error(t, err)
}

func TestGetClientConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("transport-endpoints", "a:1, b:2,,")
	viper.Set("transport-retries", 5)
	viper.Set("timeout", 7)
	viper.Set("transport-write-buffer", 2)

	conf := GetClientConfig()
	assert.Equal(t, []string{"a:1", "b:2"}, conf.Transport.Endpoints)
	assert.Equal(t, 5, conf.Transport.RetryCount)
	assert.Equal(t, int64(7), conf.TimeoutSecond)
	assert.Equal(t, 2048, conf.Transport.WriteBufferSize)
}
