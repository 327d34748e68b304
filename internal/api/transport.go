package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"kontor/internal/log"
)

// HeaderRequestID carries the id used to correlate client and backend logs.
const HeaderRequestID = "X-Request-ID"

// Transport tags every outbound request with a request id and logs it.
type Transport struct {
	base    http.RoundTripper
	logger  *log.StructuredLogger
	metrics *Metrics
}

// Metrics tracks outbound request counts
type Metrics struct {
	TotalRequests  int64
	FailedRequests int64
	LastDurationMs int64
}

// NewTransport wraps base; a nil base means http.DefaultTransport.
func NewTransport(base http.RoundTripper, logger *log.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:    base,
		logger:  log.NewStructuredLogger(logger),
		metrics: &Metrics{},
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := req.Context()

	requestID := log.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req = req.Clone(log.WithRequestID(ctx, requestID))
	req.Header.Set(HeaderRequestID, requestID)

	atomic.AddInt64(&t.metrics.TotalRequests, 1)

	resp, err := t.base.RoundTrip(req)

	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	if status == 0 || status >= 400 {
		atomic.AddInt64(&t.metrics.FailedRequests, 1)
	}
	durationMs := time.Since(start).Milliseconds()
	atomic.StoreInt64(&t.metrics.LastDurationMs, durationMs)

	t.logger.LogBackendCall(ctx, requestID, req.Method, req.URL.Path, req.URL.RawQuery, status, durationMs)
	return resp, err
}

// GetMetrics returns current metrics
func (t *Transport) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:  atomic.LoadInt64(&t.metrics.TotalRequests),
		FailedRequests: atomic.LoadInt64(&t.metrics.FailedRequests),
		LastDurationMs: atomic.LoadInt64(&t.metrics.LastDurationMs),
	}
}
