package serializer

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/sKV/rpc/common"
)

// benchmarkRequests returns a set of requests for targeted benchmarking
func benchmarkRequests() map[string]common.Request {
	return map[string]common.Request{
		"SmallGet":       *common.NewGetRequest("k"),
		"LargeKeyGet":    *common.NewGetRequest("this-is-a-very-large-key-that-could-be-used-for-storing-data-or-as-a-document-id-in-some-cases"),
		"SmallPut":       *common.NewPutRequest("key", "v"),
		"MediumPut":      *common.NewPutRequest("key", "medium length value for testing serialization"),
		"LargePut":       *common.NewPutRequest("key", strings.Repeat("x", 1024)),
		"VeryLargeValue": *common.NewPutRequest("key", strings.Repeat("x", 1024*16)),
	}
}

// BenchmarkSerializeRequest benchmarks serialization for all implementations with various requests
func BenchmarkSerializeRequest(b *testing.B) {
	requests := benchmarkRequests()

	for name, factory := range testSerializers {
		for reqName, req := range requests {
			b.Run(name+"_"+reqName, func(b *testing.B) {
				s := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := s.SerializeRequest(req); err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserializeRequest benchmarks deserialization for all implementations with various requests
func BenchmarkDeserializeRequest(b *testing.B) {
	requests := benchmarkRequests()

	for name, factory := range testSerializers {
		for reqName, req := range requests {
			b.Run(name+"_"+reqName, func(b *testing.B) {
				s := factory()
				data, err := s.SerializeRequest(req)
				if err != nil {
					b.Fatalf("Failed to serialize %s with %s: %v", reqName, name, err)
				}
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := s.DeserializeRequest(data); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize measures and reports the serialized size for each request
func BenchmarkSize(b *testing.B) {
	requests := benchmarkRequests()

	for name, factory := range testSerializers {
		s := factory()

		for reqName, req := range requests {
			b.Run(name+"_"+reqName, func(b *testing.B) {
				data, err := s.SerializeRequest(req)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				// Report the size as a custom metric
				b.ReportMetric(float64(len(data)), "bytes")

				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
