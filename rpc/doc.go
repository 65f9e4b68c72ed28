// Package rpc is the communication layer between sKV clients and the server.
//
// A connection carries exactly one request and one response. The client writes
// the encoded request and half-closes the connection, the server reads until
// end of stream, answers and closes.
//
// The package is organized into several subpackages:
//
//   - common: Request/Response types, configuration structures and logging.
//
//   - transport: Stream transports with pluggable implementations (TCP, Unix sockets).
//
//   - serializer: Wire formats for requests and responses (JSON, Binary, GOB).
//
//   - client: RPCStore, a store.IStore implementation talking to a remote server.
//
//   - server: RPCServer, which decodes requests, applies them to a local store
//     and encodes the responses.
package rpc
