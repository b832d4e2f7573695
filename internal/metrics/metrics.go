package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Sla0ui/multilookup/internal/console"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one pipeline run.
type Metrics struct {
	Registry *prometheus.Registry

	Enqueued       prometheus.Counter
	Rejected       prometheus.Counter
	SourceErrors   prometheus.Counter
	Lookups        *prometheus.CounterVec
	QueueDepth     prometheus.Gauge
	LookupDuration prometheus.Histogram
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "multilookup_hostnames_enqueued_total",
			Help: "Total number of hostnames pushed onto the queue.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "multilookup_hostnames_rejected_total",
			Help: "Total number of input tokens rejected before queueing.",
		}),
		SourceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "multilookup_source_errors_total",
			Help: "Total number of input files that could not be read.",
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multilookup_lookups_total",
			Help: "Total number of lookups by result.",
		}, []string{"result"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multilookup_queue_depth",
			Help: "Number of hostnames waiting in the queue.",
		}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "multilookup_lookup_duration_seconds",
			Help:    "Duration of single hostname lookups.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.Registry.MustRegister(m.Enqueued, m.Rejected, m.SourceErrors, m.Lookups, m.QueueDepth, m.LookupDuration)
	return m
}

// ObserveLookup records the outcome of one lookup
func (m *Metrics) ObserveLookup(took time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Lookups.WithLabelValues(result).Inc()
	m.LookupDuration.Observe(took.Seconds())
}

// Server exposes a registry on /metrics
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Serve starts listening on addr and serves in the background. A failure
// after startup is reported through log.
func Serve(addr string, reg *prometheus.Registry, log *console.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped: %v", err)
		}
	}()
	return s, nil
}

// Addr returns the bound address
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
