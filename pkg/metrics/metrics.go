package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Quote submissions by outcome: accepted, invalid, failed, error
	QuoteRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweepo_quote_requests_total",
		Help: "Total number of quote submissions grouped by outcome",
	}, []string{"outcome"})

	// Mail dispatch attempts keyed by the stage reached and its result
	MailDispatch = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweepo_mail_dispatch_total",
		Help: "Total number of mail dispatch stage outcomes",
	}, []string{"stage", "result"})
	MailDispatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sweepo_mail_dispatch_duration_seconds",
		Help:    "Wall time of a full mail dispatch attempt",
		Buckets: prometheus.DefBuckets,
	})

	// Template bodies served from the built-in layout
	TemplateFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweepo_template_fallbacks_total",
		Help: "Total number of email bodies rendered with the built-in fallback layout",
	}, []string{"body"})
)

func init() {
	prometheus.MustRegister(QuoteRequests)
	prometheus.MustRegister(MailDispatch)
	prometheus.MustRegister(MailDispatchDuration)
	prometheus.MustRegister(TemplateFallbacks)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
