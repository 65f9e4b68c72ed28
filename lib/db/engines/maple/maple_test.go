package maple

import (
	"testing"

	"github.com/ValentinKolb/sKV/lib/db"
	dbtesting "github.com/ValentinKolb/sKV/lib/db/testing"
	"github.com/stretchr/testify/assert"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "MapleDB", func() db.KVDB {
		return NewMapleDB(nil)
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "MapleDB", func() db.KVDB {
		return NewMapleDB(nil)
	})
}

func TestStaleWriteIgnored(t *testing.T) {
	database := NewMapleDB(&DBOptions{NumShards: 4})
	defer database.Close()

	database.Set("key", "new", 10)
	database.Set("key", "old", 5)

	value, ok := database.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "new", value)
	assert.Equal(t, uint64(10), database.WriteIdx())
}

func TestInfoMetadata(t *testing.T) {
	database := NewMapleDB(&DBOptions{NumShards: 2})
	defer database.Close()

	database.Set("a", "1", 1)
	info := database.GetInfo()

	assert.Equal(t, db.ImplMaple, info.DbType)
	assert.Equal(t, 1, info.Keys)
	assert.NotNil(t, info.Metadata)
}
