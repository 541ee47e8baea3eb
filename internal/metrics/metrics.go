// Package metrics holds the prometheus collectors of the quiz server.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a set of collectors bound to one registry.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	cmsRequests *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Graded question submissions by track and result.",
		}, []string{"track", "result"}),
		cmsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_requests_total",
			Help: "HTTP requests sent to the CMS by method and status (0 = no response).",
		}, []string{"method", "status"}),
	}
	m.registry.MustRegister(m.submissions, m.cmsRequests)
	return m
}

// Submitted counts one graded submission.
func (m *Metrics) Submitted(track string, correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.submissions.WithLabelValues(track, result).Inc()
}

// CMSRequest matches the cms.WithObserver callback.
func (m *Metrics) CMSRequest(method string, status int) {
	m.cmsRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
