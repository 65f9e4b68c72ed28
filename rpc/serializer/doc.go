// Package serializer converts between wire bytes and the logical common.Request and
// common.Response values. It defines a common interface and several implementations
// with different trade-offs.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//     Serialization is deterministic and performs no I/O. Every decode failure wraps
//     ErrMalformedRequest (or ErrMalformedResponse), including empty input, truncated
//     input, an unknown variant tag, a Put with the wrong number of elements and an
//     empty key.
//
//   - jsonSerializerImpl: The default. Encodes each message as an externally tagged
//     JSON object, e.g. {"Get":"a"}, {"Put":["a","1"]}, {"Ok":"1"} or
//     {"Err":"Key not found: b"}. Human-readable and easy to produce with other tools.
//
//   - binarySerializerImpl: Custom binary format of a one byte tag followed by length
//     prefixed strings. The smallest and fastest format.
//
//   - gobSerializerImpl: Go's gob encoding. Larger payloads and slower than both others,
//     mainly useful for Go-only deployments.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s := serializer.NewJSONSerializer()
//	data, err := s.SerializeRequest(*common.NewPutRequest("a", "1"))
//	// ... send data ...
//	req, err := s.DeserializeRequest(data)
package serializer
