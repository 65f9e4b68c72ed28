package testing

import (
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/sKV/lib/db"
)

// workload describes one benchmark: how many keys exist up front, how large
// values are and which share of the operations are reads.
type workload struct {
	name      string
	keys      int     // size of the key space, 0 means every write uses a fresh key
	prefill   bool    // write every key once before the timer starts
	valueSize int     // 0 means a short value derived from the key
	readRatio float32 // 0 = only Set, 1 = only Get
}

var workloads = []workload{
	{name: "Set"},
	{name: "SetExisting", keys: 10_000, prefill: true},
	{name: "SetLargeValue", valueSize: 1 << 20},
	{name: "Get", keys: 10_000, prefill: true, readRatio: 1},
	{name: "GetMiss", keys: 10_000, readRatio: 1},
	{name: "MixedUsage", keys: 50_000, prefill: true, readRatio: 0.7},
}

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementation
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		for _, w := range workloads {
			b.Run(w.name, func(b *testing.B) {
				runWorkload(b, factory(), w)
			})
		}
	})
}

func runWorkload(b *testing.B, database db.KVDB, w workload) {
	b.Cleanup(func() {
		database.Close()
	})

	var index atomic.Uint64
	large := strings.Repeat("x", w.valueSize)
	value := func(key string) string {
		if w.valueSize > 0 {
			return large
		}
		return "value-" + key
	}
	key := func(i uint64) string {
		if w.keys > 0 {
			i %= uint64(w.keys)
		}
		return "bench-key-" + strconv.FormatUint(i, 10)
	}

	if w.prefill {
		for i := 0; i < w.keys; i++ {
			k := key(uint64(i))
			database.Set(k, value(k), index.Add(1))
		}
	}

	if w.valueSize > 0 {
		b.SetBytes(int64(w.valueSize))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			if w.readRatio > 0 && rnd.Float32() < w.readRatio {
				database.Get(key(uint64(rnd.Int63())))
				continue
			}
			i := index.Add(1)
			k := key(i)
			database.Set(k, value(k), i)
		}
	})
}
