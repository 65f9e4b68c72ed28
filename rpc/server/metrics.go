package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ValentinKolb/sKV/lib/store"
	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// serverMetrics holds the request metrics of one RPCServer
type serverMetrics struct {
	set *metrics.Set

	getOk     *metrics.Counter
	getMiss   *metrics.Counter
	putOk     *metrics.Counter
	failed    *metrics.Counter
	malformed *metrics.Counter
	readError *metrics.Counter

	requestBytes  *metrics.Counter
	responseBytes *metrics.Counter
	duration      *metrics.Histogram
}

func newServerMetrics(s store.IStore) *serverMetrics {
	set := metrics.NewSet()

	m := &serverMetrics{
		set:           set,
		getOk:         set.GetOrCreateCounter(`skv_requests_total{kind="get",outcome="ok"}`),
		getMiss:       set.GetOrCreateCounter(`skv_requests_total{kind="get",outcome="not_found"}`),
		putOk:         set.GetOrCreateCounter(`skv_requests_total{kind="put",outcome="ok"}`),
		failed:        set.GetOrCreateCounter(`skv_requests_total{kind="any",outcome="error"}`),
		malformed:     set.GetOrCreateCounter(`skv_requests_total{kind="unknown",outcome="malformed"}`),
		readError:     set.GetOrCreateCounter(`skv_requests_total{kind="unknown",outcome="read_error"}`),
		requestBytes:  set.GetOrCreateCounter(`skv_request_bytes_total`),
		responseBytes: set.GetOrCreateCounter(`skv_response_bytes_total`),
		duration:      set.GetOrCreateHistogram(`skv_request_duration_seconds`),
	}

	set.GetOrCreateGauge(`skv_store_keys`, func() float64 {
		info, err := s.GetDBInfo()
		if err != nil {
			return 0
		}
		return float64(info.Keys)
	})

	return m
}

// observe records a handled request
func (m *serverMetrics) observe(req *common.Request, resp *common.Response, start time.Time) {
	m.duration.Update(time.Since(start).Seconds())

	switch {
	case !resp.IsOk() && req.Kind == common.ReqGet && isKeyNotFound(resp):
		m.getMiss.Inc()
	case !resp.IsOk():
		m.failed.Inc()
	case req.Kind == common.ReqGet:
		m.getOk.Inc()
	case req.Kind == common.ReqPut:
		m.putOk.Inc()
	}
}

func isKeyNotFound(resp *common.Response) bool {
	return strings.HasPrefix(resp.Message, MsgKeyNotFound)
}

// --------------------------------------------------------------------------
// Prometheus endpoint
// --------------------------------------------------------------------------

// serveMetrics exposes the server set and the process metrics at /metrics on endpoint.
// The listener is created synchronously so a bind failure is returned to the caller.
func (m *serverMetrics) serveMetrics(endpoint string) (*http.Server, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to bind metrics endpoint: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		m.set.WritePrometheus(w)
		metrics.WritePrometheus(w, true)
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint stopped: %v", err)
		}
	}()

	Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
	return srv, nil
}
