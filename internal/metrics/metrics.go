// Package metrics exposes Prometheus instrumentation for session activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the session layer reports into.
type Recorder interface {
	RecordAuthAttempt(op string, ok bool)
	RecordBookmark(op, outcome string)
	RecordRestore(outcome string)
	SetActiveSessions(n int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	authAttempts   *prometheus.CounterVec
	bookmarks      *prometheus.CounterVec
	restores       *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discountpro_auth_attempts_total",
			Help: "Login, register and password reset attempts by result.",
		}, []string{"op", "result"}),
		bookmarks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discountpro_bookmark_operations_total",
			Help: "Coupon bookmark operations by outcome.",
		}, []string{"op", "outcome"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discountpro_session_restores_total",
			Help: "Session restores from client storage by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "discountpro_active_client_sessions",
			Help: "Client sessions currently held in memory.",
		}),
	}

	reg.MustRegister(c.authAttempts, c.bookmarks, c.restores, c.activeSessions)
	return c
}

func (c *Collector) RecordAuthAttempt(op string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	c.authAttempts.WithLabelValues(op, result).Inc()
}

func (c *Collector) RecordBookmark(op, outcome string) {
	c.bookmarks.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) RecordRestore(outcome string) {
	c.restores.WithLabelValues(outcome).Inc()
}

func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAuthAttempt(string, bool) {}
func (Nop) RecordBookmark(string, string) {}
func (Nop) RecordRestore(string) {}
func (Nop) SetActiveSessions(int) {}
