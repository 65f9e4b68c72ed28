package base

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
)

// acceptBackoff is the pause after a failed Accept before the next attempt
const acceptBackoff = 5 * time.Millisecond

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector IServerConnector
	handler   transport.ServerHandleFunc
	config    common.ServerConfig

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool

	accepted     *metrics.Counter
	acceptErrors *metrics.Counter
	readErrors   *metrics.Counter
	writeErrors  *metrics.Counter
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with the specified connector
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	name := connector.GetName()
	return &serverTransport{
		connector:    connector,
		accepted:     metrics.GetOrCreateCounter(fmt.Sprintf(`skv_connections_accepted_total{transport=%q}`, name)),
		acceptErrors: metrics.GetOrCreateCounter(fmt.Sprintf(`skv_accept_errors_total{transport=%q}`, name)),
		readErrors:   metrics.GetOrCreateCounter(fmt.Sprintf(`skv_connection_errors_total{transport=%q,op="read"}`, name)),
		writeErrors:  metrics.GetOrCreateCounter(fmt.Sprintf(`skv_connection_errors_total{transport=%q,op="write"}`, name)),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Bind(config common.ServerConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener != nil {
		return fmt.Errorf("%s transport already bound to %s", t.connector.GetName(), t.listener.Addr())
	}

	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	t.config = config
	t.listener = listener

	Logger.Infof("Bound %s server to %s", t.connector.GetName(), listener.Addr())
	return nil
}

func (t *serverTransport) Serve() error {
	t.mu.Lock()
	listener := t.listener
	t.mu.Unlock()

	if listener == nil {
		return fmt.Errorf("%s transport is not bound", t.connector.GetName())
	}
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.closed.Load() || errors.Is(err, net.ErrClosed) {
				Logger.Infof("Stopped accepting connections on %s", listener.Addr())
				return nil
			}
			t.acceptErrors.Inc()
			Logger.Errorf("Accept error: %v", err)
			time.Sleep(acceptBackoff)
			continue
		}
		t.accepted.Inc()

		// Handle the connection in a goroutine
		go t.handleConnection(conn)
	}
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if err := t.Bind(config); err != nil {
		return err
	}
	return t.Serve()
}

func (t *serverTransport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *serverTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil || !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.listener.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection handles the single request of one connection
func (t *serverTransport) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr()

	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		Logger.Warningf("Failed to upgrade connection from %v: %v", remote, err)
	}

	// Timeout in seconds
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			Logger.Errorf("Failed to set read deadline: %v", err)
			return
		}
	}

	// Read until the client half-closes
	start := time.Now()
	req, err := readAll(conn, t.config.MaxRequestBytes)
	if err != nil {
		t.readErrors.Inc()
		if errors.Is(err, transport.ErrRequestTooLarge) {
			Logger.Warningf("Request from %v exceeds %d bytes", remote, t.config.MaxRequestBytes)
		} else {
			Logger.Errorf("Failed to read request from %v: %v", remote, err)
		}
		req = nil
	}

	resp := t.handler(req, err)
	if resp == nil {
		return
	}

	if timeout > 0 {
		if werr := conn.SetWriteDeadline(time.Now().Add(timeout)); werr != nil {
			Logger.Errorf("Failed to set write deadline: %v", werr)
			return
		}
	}

	if _, werr := conn.Write(resp); werr != nil {
		t.writeErrors.Inc()
		Logger.Errorf("Failed to write response to %v: %v", remote, werr)
		return
	}
	Logger.Debugf("Handled connection from %v in %s", remote, time.Since(start))

	// Drain unread input, closing with pending input resets the connection
	if err != nil {
		lingeringClose(conn)
	}
}
