// Package transport defines the interfaces for moving request and response bytes
// between sKV clients and servers. It provides a common contract that all transport
// implementations (TCP and Unix sockets) fulfill.
//
// Framing:
//
//	Each connection carries exactly one request and one response. The client writes
//	the whole request and shuts down its write side (half-close). The server reads
//	until end of input, hands the bytes to the registered ServerHandleFunc, writes
//	the returned response and closes the connection. There is no pipelining and no
//	keep-alive.
//
// Key Components:
//
//   - IRPCServerTransport: binds an address and runs the accept loop, one goroutine
//     per connection.
//
//   - IRPCClientTransport: dials a fresh connection per request.
//
//   - ServerHandleFunc: the callback turning request bytes into response bytes.
package transport
