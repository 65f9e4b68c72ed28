// Package tcp implements the TCP socket transport of sKV. It provides the TCP
// specific connectors for the base package, which contains the actual request
// handling (see its documentation).
//
// Key Components:
//
//   - clientConnector: dials with net.DialTimeout and applies the client TCPConf
//
//   - serverConnector: listens on ServerConfig.Endpoint (host:port, port 0 picks a
//     free port) and applies the server TCPConf to accepted connections
//
// Socket options (SocketConf, TCPConf) are applied to both sides: buffer sizes,
// TCP_NODELAY, keep-alive and linger.
package tcp
