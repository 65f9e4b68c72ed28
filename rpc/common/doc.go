// Package common provides the data structures shared by the sKV server, client and
// transports.
//
// Key Components:
//
//   - Request / Response: the logical messages of the protocol. A Request is either
//     Get(key) or Put(key, value), a Response is either Ok(message) or Err(message).
//     How they are laid out on the wire is up to the serializer package.
//
//   - ServerConfig / ClientConfig: runtime configuration with a String method that
//     renders a sectioned dump, printed on startup.
//
//   - Logger: a formatter for dragonboats logger package. InitLoggers installs it and
//     sets the level of every sKV package logger.
package common
