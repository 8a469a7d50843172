// Package metrics exposes Prometheus metrics for form validation.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formguard/pkg/validation"
)

const namespace = "formguard"

// Collector holds the Prometheus metrics of the service. It implements
// validation.Observer.
type Collector struct {
	registry prometheus.Gatherer

	// Validation metrics
	FieldResults       *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Form definition metrics
	FormReloads      prometheus.Counter
	FormReloadErrors prometheus.Counter
	FormLastReload   prometheus.Gauge
}

var _ validation.Observer = (*Collector)(nil)

// New creates a collector registered on a private registry.
func New() *Collector {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates a collector registered on reg.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		FieldResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_validations_total",
				Help:      "Field validations by outcome",
			},
			[]string{"status", "rule"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Whole-form submissions by final state",
			},
			[]string{"state", "proceed"},
		),
		SubmissionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submission_duration_seconds",
				Help:      "Duration of whole-form validation passes",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route"},
		),

		FormReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_reloads_total",
				Help:      "Successful form definition reloads",
			},
		),
		FormReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_reload_errors_total",
				Help:      "Failed form definition reloads",
			},
		),
		FormLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "form_last_reload_timestamp_seconds",
				Help:      "Unix time of the last successful form definition reload",
			},
		),
	}
}

// FieldValidated implements validation.Observer.
func (c *Collector) FieldValidated(_ context.Context, _ string, res validation.FieldResult) {
	c.FieldResults.WithLabelValues(string(res.Status), res.Rule).Inc()
}

// SubmissionFinished implements validation.Observer.
func (c *Collector) SubmissionFinished(_ context.Context, sub *validation.Submission, elapsed time.Duration) {
	c.Submissions.WithLabelValues(string(sub.State), strconv.FormatBool(sub.Proceed)).Inc()
	c.SubmissionDuration.Observe(elapsed.Seconds())
}

// RecordReload records the outcome of a form definition reload.
func (c *Collector) RecordReload(err error) {
	if err != nil {
		c.FormReloadErrors.Inc()
		return
	}
	c.FormReloads.Inc()
	c.FormLastReload.SetToCurrentTime()
}

// ObserveRequest records one HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
