package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"compta-pme-api/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter from the registry by name and label values.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metric:
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMiddleware_RecordsStatusOfReturnedErrors(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).SendString(fe.Message)
			}
			return c.Status(apperror.From(err).HTTPStatus).SendString(err.Error())
		},
	})
	app.Use(Middleware())
	app.Get("/metrics-test/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics-test/missing", func(c *fiber.Ctx) error { return apperror.NewNotFound("missing") })
	app.Get("/metrics-test/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot) })

	for _, path := range []string{"/metrics-test/ok", "/metrics-test/ok", "/metrics-test/missing", "/metrics-test/teapot"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	const name = "compta_http_requests_total"
	assert.Equal(t, 2.0, counterValue(t, name, map[string]string{"route": "/metrics-test/ok", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, name, map[string]string{"route": "/metrics-test/missing", "status": "404"}))
	assert.Equal(t, 1.0, counterValue(t, name, map[string]string{"route": "/metrics-test/teapot", "status": "418"}))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	ChatReplies.WithLabelValues("metrics_test").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1.0, counterValue(t, "compta_chat_replies_total", map[string]string{"intent": "metrics_test"}))
}
