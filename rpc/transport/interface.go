package transport

import (
	"errors"
	"net"

	"github.com/ValentinKolb/sKV/rpc/common"
)

// ErrRequestTooLarge is passed to the handler when a request exceeds ServerConfig.MaxRequestBytes
var ErrRequestTooLarge = errors.New("request too large")

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests.
// It is called once per connection with the complete request bytes. If the
// request could not be read, req is nil and err describes the failure, the
// handler may still return a response which is then written where possible.
// A nil response closes the connection without writing anything.
type ServerHandleFunc func(req []byte, err error) (resp []byte)

// IRPCServerTransport is the interface for the server side of the transport layer.
// Every accepted connection carries exactly one request and one response.
type IRPCServerTransport interface {
	// RegisterHandler registers the handler called for every connection
	RegisterHandler(handler ServerHandleFunc)
	// Bind acquires the listening address. A failure here is fatal for the server.
	Bind(config common.ServerConfig) error
	// Serve runs the accept loop until Close is called. Accept errors are logged
	// and do not stop the loop. Serve returns nil after Close.
	Serve() error
	// Listen is Bind followed by Serve
	Listen(config common.ServerConfig) error
	// Addr returns the bound address or nil before Bind
	Addr() net.Addr
	// Close stops accepting new connections. Connections in flight are finished.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send opens a new connection, writes the request, half-closes the connection
	// and returns everything the server wrote before closing it
	Send(req []byte) (resp []byte, err error)
	// Close releases the transport
	Close() error
}
