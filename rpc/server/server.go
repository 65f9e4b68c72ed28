package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/serializer"
	"github.com/ValentinKolb/sKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// slowRequestThreshold is the handling time above which a request is logged
const slowRequestThreshold = 100 * time.Millisecond

// RPCServer serves one store over one transport. Every connection carries one
// request, which is decoded, executed against the store and answered.
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	store      store.IStore
	adapter    IRPCServerAdapter
	metrics    *serverMetrics

	mu         sync.Mutex
	bound      bool
	metricsSrv *http.Server
}

// NewRPCServer creates a new RPC server
// It takes a config, transport, serializer and the store to serve as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewJSONSerializer(),
//		lstore.NewLocalStore(dbFactory),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
	store store.IStore,
) *RPCServer {
	s := &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		store:      store,
		adapter:    NewIStoreServerAdapter(),
		metrics:    newServerMetrics(store),
	}
	s.transport.RegisterHandler(s.handleTransport)
	return s
}

// Bind acquires the listening address (and the metrics endpoint, if configured).
// Serve calls it when it was not called before.
func (s *RPCServer) Bind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bound {
		return nil
	}

	if err := s.transport.Bind(s.config); err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.config.Endpoint, err)
	}

	if s.config.MetricsEndpoint != "" {
		srv, err := s.metrics.serveMetrics(s.config.MetricsEndpoint)
		if err != nil {
			_ = s.transport.Close()
			return err
		}
		s.metricsSrv = srv
	}

	s.bound = true
	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", s.config.String())
	return nil
}

// Serve runs the accept loop until Close is called.
func (s *RPCServer) Serve() error {
	if err := s.Bind(); err != nil {
		return err
	}
	return s.transport.Serve()
}

// Addr returns the bound address or nil before Bind
func (s *RPCServer) Addr() net.Addr {
	return s.transport.Addr()
}

// Close stops accepting connections and shuts down the metrics endpoint.
// The store is left untouched.
func (s *RPCServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.metricsSrv != nil {
		errs = append(errs, s.metricsSrv.Close())
		s.metricsSrv = nil
	}
	errs = append(errs, s.transport.Close())
	return errors.Join(errs...)
}

// Handle turns the bytes of one request into the bytes of its response.
// A request that can not be decoded never reaches the store and is answered
// with Err("malformed request").
func (s *RPCServer) Handle(reqBytes []byte) []byte {
	start := time.Now()
	s.metrics.requestBytes.Add(len(reqBytes))

	req, err := s.serializer.DeserializeRequest(reqBytes)
	if err != nil {
		Logger.Debugf("Malformed request (%d bytes): %v", len(reqBytes), err)
		s.metrics.malformed.Inc()
		return s.encode(common.NewErrResponse(MsgMalformedRequest))
	}

	resp := s.adapter.Handle(&req, s.store)
	s.metrics.observe(&req, resp, start)

	if elapsed := time.Since(start); elapsed > slowRequestThreshold {
		Logger.Debugf("Handling %s took %s", req.String(), elapsed)
	}
	return s.encode(resp)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleTransport is the transport.ServerHandleFunc of the server
func (s *RPCServer) handleTransport(req []byte, err error) []byte {
	if err == nil {
		return s.Handle(req)
	}

	s.metrics.readError.Inc()
	if errors.Is(err, transport.ErrRequestTooLarge) {
		return s.encode(common.NewErrResponse(MsgRequestTooLarge))
	}
	return s.encode(common.NewErrResponse(MsgReadFailed))
}

// encode serializes resp. If that fails nothing can be sent and the connection is closed.
func (s *RPCServer) encode(resp *common.Response) []byte {
	data, err := s.serializer.SerializeResponse(*resp)
	if err != nil {
		Logger.Errorf("Failed to serialize response %s: %v", resp.String(), err)
		return nil
	}
	s.metrics.responseBytes.Add(len(data))
	return data
}
