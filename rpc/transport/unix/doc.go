// Package unix implements the Unix domain socket transport of sKV, for clients
// running on the same machine as the server. The endpoint is a socket path, an
// existing file at that path is removed before binding.
//
// It only provides the connectors, request handling is done by the base package.
package unix
