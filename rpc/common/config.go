package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport configuration (shared by server and client)
// --------------------------------------------------------------------------

// SocketConf holds socket level options applied to every accepted or dialed connection
type SocketConf struct {
	WriteBufferSize int // 0 = OS default
	ReadBufferSize  int // 0 = OS default
}

// TCPConf holds options only used by the tcp transport
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 = disabled
	TCPLingerSec    int // seconds to linger on close, <= 0 = OS default
}

type ServerTransportConfig struct {
	SocketConf
	TCPConf
}

type ClientTransportConfig struct {
	Endpoints  []string
	RetryCount int
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

const (
	DefaultEndpoint        = "127.0.0.1:8080"
	DefaultMaxRequestBytes = 1 << 20 // 1 MiB
	DefaultEngine          = "maple"
	DefaultLogLevel        = "info"
)

// ServerConfig holds all configuration parameters of a sKV server.
type ServerConfig struct {
	// Endpoint is the address the server binds to (host:port or a socket path)
	Endpoint string

	// TimeoutSecond is the read/write deadline per connection, 0 means no deadline
	TimeoutSecond int64

	// MaxRequestBytes limits the size of a single request, 0 means unlimited
	MaxRequestBytes int64

	// Engine is the name of the storage engine (see db.ParseImplementation)
	Engine string

	// MetricsEndpoint is the address of the Prometheus metrics endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string

	Transport ServerTransportConfig
}

// DefaultServerConfig returns a ServerConfig with all defaults applied
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Endpoint:        DefaultEndpoint,
		MaxRequestBytes: DefaultMaxRequestBytes,
		Engine:          DefaultEngine,
		LogLevel:        DefaultLogLevel,
		Transport: ServerTransportConfig{
			TCPConf: TCPConf{
				TCPNoDelay: true,
			},
		},
	}
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection, addField := formatHelpers(&sb)

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", formatTimeout(c.TimeoutSecond))
	if c.MaxRequestBytes > 0 {
		addField("Max Request Size", fmt.Sprintf("%d bytes", c.MaxRequestBytes))
	} else {
		addField("Max Request Size", "unlimited")
	}

	// Storage
	addSection("Store")
	addField("Engine", c.Engine)

	// Socket options
	addSection("Transport")
	addField("Write Buffer Size", formatBufferSize(c.Transport.WriteBufferSize))
	addField("Read Buffer Size", formatBufferSize(c.Transport.ReadBufferSize))
	addField("TCP No Delay", strconv.FormatBool(c.Transport.TCPNoDelay))
	addField("TCP Keep Alive", formatTimeout(int64(c.Transport.TCPKeepAliveSec)))

	// Logging and metrics
	addSection("Observability")
	addField("Log Level", c.LogLevel)
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	TimeoutSecond int64
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection, addField := formatHelpers(&sb)

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", formatTimeout(c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func formatHelpers(sb *strings.Builder) (addSection func(string), addField func(string, string)) {
	addSection = func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}
	addField = func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}
	return addSection, addField
}

func formatTimeout(sec int64) string {
	if sec <= 0 {
		return "none"
	}
	return fmt.Sprintf("%d sec", sec)
}

func formatBufferSize(size int) string {
	if size <= 0 {
		return "os default"
	}
	return fmt.Sprintf("%d bytes", size)
}
