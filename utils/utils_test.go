package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/apperrors"
)

func TestGenerateOTP(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestDayBoundariesFollowLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 17th is already the 18th in Kolkata.
	instant := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-10-17", DateIn(instant, time.UTC))
	assert.Equal(t, "2026-10-18", DateIn(instant, kolkata))
	assert.True(t, StartOfDay(instant, kolkata).Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, kolkata)))
	assert.True(t, StartOfMonth(instant, time.UTC).Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
}

func TestOTPEmailMentionsCodeAndExpiry(t *testing.T) {
	subject, body := OTPEmail("register", "042137", 5)
	assert.NotEmpty(t, subject)
	assert.Contains(t, body, "042137")
	assert.Contains(t, body, "5 minutes")
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NotFound("Service not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{"/missing", http.StatusNotFound, "Service not found"},
		{"/boom", http.StatusInternalServerError, "Internal server error"},
		{"/no-such-route", http.StatusNotFound, "Cannot GET /no-such-route"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body Response
			require.NoError(t, decodeJSON(resp, &body))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func decodeJSON(resp *http.Response, out interface{}) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
