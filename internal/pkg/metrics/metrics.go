// Package metrics exposes Prometheus metrics for the handicap and tips jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the counters.
const (
	OutcomeInserted = "inserted"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithProcessCollectors registers the Go runtime and process collectors.
func WithProcessCollectors() Option {
	return func(r *Recorder) {
		r.processCollectors = true
	}
}

// Recorder owns every metric of one process. A nil *Recorder is a valid no-op.
type Recorder struct {
	namespace         string
	registry          *prometheus.Registry
	processCollectors bool

	runsTotal       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	recommendations *prometheus.CounterVec
	suppressed      prometheus.Counter
	feedRequests    *prometheus.CounterVec
	aiRequests      *prometheus.CounterVec
	aiResults       *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	clashesDetected prometheus.Counter
	breakerOpen     *prometheus.GaugeVec
}

// NewRecorder creates a recorder on its own registry unless WithRegistry is given.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "hoopsedge",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.processCollectors {
		r.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	f := promauto.With(r.registry)
	r.runsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "runs_total", Help: "Pipeline runs by job and status.",
	}, []string{"job", "status"})
	r.runDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace, Name: "run_duration_seconds", Help: "Pipeline run duration.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"job"})
	r.recommendations = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "recommendations_total", Help: "Recommendation writes by outcome.",
	}, []string{"outcome"})
	r.suppressed = f.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "recommendations_suppressed_total", Help: "Recommendations hidden for lack of statistics.",
	})
	r.feedRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "feed_requests_total", Help: "Upstream feed requests by feed and outcome.",
	}, []string{"feed", "outcome"})
	r.aiRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "ai_requests_total", Help: "Text generation calls by model and outcome.",
	}, []string{"model", "outcome"})
	r.aiResults = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "ai_results_total", Help: "Text generation results (ok or fallback).",
	}, []string{"outcome"})
	r.notifications = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "notifications_total", Help: "Chat messages by outcome.",
	}, []string{"outcome"})
	r.clashesDetected = f.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace, Name: "style_clashes_total", Help: "Style clashes detected.",
	})
	r.breakerOpen = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace, Name: "circuit_breaker_open", Help: "1 while the named breaker is open.",
	}, []string{"name"})

	return r
}

// Handler serves the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) RunFinished(job string, err error, d time.Duration) {
	if r == nil {
		return
	}
	status := OutcomeOK
	if err != nil {
		status = OutcomeError
	}
	r.runsTotal.WithLabelValues(job, status).Inc()
	r.runDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (r *Recorder) Recommendation(outcome string) {
	if r == nil {
		return
	}
	r.recommendations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Suppressed(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.suppressed.Add(float64(n))
}

func (r *Recorder) FeedRequest(feed string, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.feedRequests.WithLabelValues(feed, outcome).Inc()
}

func (r *Recorder) AIRequest(model string, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.aiRequests.WithLabelValues(model, outcome).Inc()
}

// AIResult counts generated texts; fallback is true when the static text was used.
func (r *Recorder) AIResult(fallback bool) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if fallback {
		outcome = OutcomeFallback
	}
	r.aiResults.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Notification(err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.notifications.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ClashDetected() {
	if r == nil {
		return
	}
	r.clashesDetected.Inc()
}

func (r *Recorder) BreakerOpen(name string, open bool) {
	if r == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	r.breakerOpen.WithLabelValues(name).Set(v)
}
