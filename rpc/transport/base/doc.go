// Package base provides the protocol-agnostic core of the sKV transports. TCP and
// Unix sockets only differ in how a listener is created and how a connection is
// dialed and tuned, everything else lives here and is extended with connectors.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - serverTransport: binds through the connector and runs the accept loop. Every
//     accepted connection is handled in its own goroutine: read until the client
//     half-closes (bounded by MaxRequestBytes), call the handler, write the response
//     and close. Accept errors are logged and counted but never stop the loop.
//
//   - clientTransport: dials a new connection per request, rotating over the
//     configured endpoints (Round Robin). Dial failures are retried with exponential
//     backoff and jitter, a request is never resent once it was written.
//
// Error handling:
//
//	A failed or oversized read still reaches the handler (with a nil request and the
//	error), so the client receives an Err response where possible. In that case the
//	remaining input is drained for a short time before the connection is closed.
//
// Metrics (VictoriaMetrics, default set):
//
//	skv_connections_accepted_total, skv_accept_errors_total and
//	skv_connection_errors_total, labeled by transport.
//
// Thread Safety:
//
//	All public methods are safe for concurrent use. Connections share no state
//	besides the handler.
package base
