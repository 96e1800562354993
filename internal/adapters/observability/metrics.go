package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "trip"

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func seconds(name, help string, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: prometheus.DefBuckets,
	}, labels)
}

var (
	HTTPRequests     = counter("http_requests_total", "HTTP requests served.", "route", "method", "status")
	HTTPLatency      = seconds("http_request_duration_seconds", "HTTP request duration.", "route", "method")
	ExternalRequests = counter("external_requests_total", "Calls to remote APIs.", "service", "endpoint", "status")
	ExternalLatency  = seconds("external_request_duration_seconds", "Remote API call duration.", "service", "endpoint")
	StoreEvents      = counter("store_events_total", "Key-value store reads and writes.", "store", "event") // hit|miss|set|error
	ImportLines      = counter("review_import_lines_total", "Bulk import lines by outcome.", "outcome")
)

// InitRegistry returns a registry holding every trip collector.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, StoreEvents, ImportLines)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes reg on a separate listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveStore(store, event string) {
	StoreEvents.WithLabelValues(store, event).Inc()
}

// ObserveImport adds n lines under outcome; n <= 0 records nothing.
func ObserveImport(outcome string, n int) {
	if n <= 0 {
		return
	}
	ImportLines.WithLabelValues(outcome).Add(float64(n))
}
