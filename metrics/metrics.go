package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/utils"
)

// Collector owns the API's Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	appointmentTransition *prometheus.CounterVec
	remindersSent         *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kure_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kure_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		appointmentTransition: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kure_appointment_transitions_total",
				Help: "Appointment status changes by target status",
			},
			[]string{"to"},
		),
		remindersSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kure_reminders_total",
				Help: "Appointment reminder emails by outcome",
			},
			[]string{"outcome"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.appointmentTransition,
		c.remindersSent,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordTransition(to models.AppointmentStatus) {
	c.appointmentTransition.WithLabelValues(string(to)).Inc()
}

func (c *Collector) RecordReminder(sent bool) {
	outcome := "sent"
	if !sent {
		outcome = "failed"
	}
	c.remindersSent.WithLabelValues(outcome).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Middleware records every request against its route pattern, so path
// parameters do not explode label cardinality.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			// The error handler has not written the response yet.
			status = utils.StatusOf(err)
		}
		c.RecordHTTPRequest(ctx.Method(), ctx.Route().Path, status, time.Since(start))
		return err
	}
}
