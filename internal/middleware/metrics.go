package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the ledger service.
type Metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	transfers prometheus.Histogram
	residuals prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		transfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "summary_transfers",
			Help:      "Number of transfers in computed clearings.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		residuals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "summary_residuals_total",
			Help:      "Clearings that left an unsettled residual balance.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.transfers, m.residuals)
	return m
}

// Interceptor returns a Connect interceptor recording call counts and latency.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.requests.WithLabelValues(procedure, code).Inc()
			m.latency.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// ObserveSummary records the outcome of one clearing.
func (m *Metrics) ObserveSummary(transfers int, residual bool) {
	if m == nil {
		return
	}
	m.transfers.Observe(float64(transfers))
	if residual {
		m.residuals.Inc()
	}
}
