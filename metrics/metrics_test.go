package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
)

func TestCollector_Counters(t *testing.T) {
	c := New()

	c.RecordTransition(models.StatusConfirmed)
	c.RecordTransition(models.StatusConfirmed)
	c.RecordTransition(models.StatusCancelled)
	c.RecordReminder(true)
	c.RecordReminder(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.appointmentTransition.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.appointmentTransition.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.remindersSent.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.remindersSent.WithLabelValues("failed")))
}

func TestCollector_MiddlewareUsesRoutePattern(t *testing.T) {
	c := New()
	app := fiber.New()
	app.Use(c.Middleware())
	app.Get("/appointments/:id", func(ctx *fiber.Ctx) error {
		if ctx.Params("id") == "404" {
			return apperrors.NotFound("Appointment not found")
		}
		return ctx.SendStatus(fiber.StatusOK)
	})
	app.Get("/metrics", adaptor.HTTPHandler(c.Handler()))

	for _, path := range []string{"/appointments/1", "/appointments/2", "/appointments/404"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("GET", "/appointments/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("GET", "/appointments/:id", "404")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kure_http_requests_total")
}
