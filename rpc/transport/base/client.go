package base

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/rpc")

// ErrNotConnected is returned by Send before Connect or after Close
var ErrNotConnected = errors.New("transport not connected")

// initialBackoff is the pause before the first dial retry, doubled per attempt
const initialBackoff = 50 * time.Millisecond

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection to endpoint
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
type clientTransport struct {
	connector      IClientConnector
	config         common.ClientConfig
	connected      atomic.Bool
	nextEndpoint   atomic.Uint64 // Round Robin counter
	dialAttempts   int
	requestTimeout time.Duration
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	t.config = config
	t.requestTimeout = time.Duration(config.TimeoutSecond) * time.Second

	// We always try at least once
	t.dialAttempts = config.Transport.RetryCount
	if t.dialAttempts < 1 {
		t.dialAttempts = 1
	}
	t.connected.Store(true)

	Logger.Debugf("Using %d endpoint(s) with %s transport", len(config.Transport.Endpoints), t.connector.GetName())
	return nil
}

func (t *clientTransport) Send(req []byte) ([]byte, error) {
	if !t.connected.Load() {
		return nil, ErrNotConnected
	}

	conn, err := t.dial()
	if err != nil {
		return nil, err
	}
	return t.roundTrip(conn, req)
}

func (t *clientTransport) Close() error {
	t.connected.Store(false)
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dial connects to the next endpoint (Round Robin). Only dial failures are retried,
// a request that was written is never sent again.
func (t *clientTransport) dial() (net.Conn, error) {
	var lastErr error
	backoff := initialBackoff

	for i := 0; i < t.dialAttempts; i++ {
		endpoint := t.getNextEndpoint()

		conn, err := t.connector.Connect(endpoint, t.requestTimeout)
		if err == nil {
			if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to upgrade connection to %s: %w", endpoint, err)
			}
			return conn, nil
		}

		lastErr = err
		Logger.Debugf("Dial attempt %d/%d to %s failed: %v", i+1, t.dialAttempts, endpoint, err)

		if i < t.dialAttempts-1 {
			// Exponential backoff with a small random jitter (+-10%)
			jitter := float64(backoff) * (0.9 + 0.2*rand.Float64())
			time.Sleep(time.Duration(jitter))
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", t.dialAttempts, lastErr)
}

// roundTrip writes req, half-closes the connection and reads the response until EOF
func (t *clientTransport) roundTrip(conn net.Conn, req []byte) ([]byte, error) {
	defer conn.Close()

	if t.requestTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(t.requestTimeout)); err != nil {
			return nil, fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	if _, err := conn.Write(req); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}
	if err := closeWrite(conn); err != nil {
		return nil, fmt.Errorf("failed to half-close connection: %w", err)
	}

	resp, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("server closed the connection without a response")
	}
	return resp, nil
}

// getNextEndpoint selects the next endpoint via Round Robin
func (t *clientTransport) getNextEndpoint() string {
	endpoints := t.config.Transport.Endpoints
	if len(endpoints) == 1 {
		return endpoints[0]
	}
	index := (t.nextEndpoint.Add(1) - 1) % uint64(len(endpoints))
	return endpoints[index]
}
