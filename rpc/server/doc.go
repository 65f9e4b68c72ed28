// Package server implements the sKV RPC server. It glues a transport, a serializer
// and a store.IStore together and owns the per-request protocol.
//
// Request handling (one connection, one request):
//
//  1. The transport reads the request until the client half-closes.
//  2. The serializer decodes it. A decode failure never reaches the store and is
//     answered with Err("malformed request").
//  3. The IStore adapter executes it:
//     Get hit -> Ok(value), Get miss -> Err("Key not found: <key>"),
//     Put -> Ok("Key-Value pair added: <key> - <value>").
//  4. The response is encoded, written in full and the connection is closed.
//
// Requests that can not be read are answered with Err("request too large") or
// Err("failed to read request") where the connection still allows it. Failures of
// one connection never affect the store or other connections.
//
// Key Components:
//
//   - RPCServer: created by NewRPCServer. Bind acquires the address (a failure here
//     is fatal), Serve runs the accept loop, Handle is the pure bytes to bytes core
//     and Close stops the server.
//
//   - IRPCServerAdapter: maps a decoded request to a response against a store.
//
//   - Metrics: every server keeps a VictoriaMetrics set with request counters by
//     kind and outcome, byte counters, a latency histogram and the number of keys.
//     If ServerConfig.MetricsEndpoint is set, the set is served in Prometheus text
//     format at /metrics together with the process metrics.
//
// Usage Example:
//
//	config := common.DefaultServerConfig()
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewJSONSerializer(),
//	  lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) }),
//	)
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
package server
