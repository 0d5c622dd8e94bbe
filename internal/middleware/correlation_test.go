package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCorrelationApp(capture *string) *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		*capture = GetCorrelationID(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCorrelationIDReusesClientHeader(t *testing.T) {
	var seen string
	app := newCorrelationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "client-supplied-id")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	require.Equal(t, "client-supplied-id", seen)
	require.Equal(t, "client-supplied-id", resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDFallsBackToRequestID(t *testing.T) {
	var seen string
	app := newCorrelationApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-request-id")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	require.Equal(t, "upstream-request-id", seen)
}

func TestCorrelationIDGeneratesWhenAbsent(t *testing.T) {
	var seen string
	app := newCorrelationApp(&seen)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	_, parseErr := uuid.Parse(seen)
	require.NoError(t, parseErr)
	require.Equal(t, seen, resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDFromContextMissing(t *testing.T) {
	require.Empty(t, CorrelationIDFromContext(nil))
}
