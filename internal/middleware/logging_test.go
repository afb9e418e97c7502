package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahim-kiri/rate-my-professor/internal/logger"
)

func newApp(buf *bytes.Buffer) *fiber.App {
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logging(logger.NewWithWriter(buf, "test", "debug")))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "nope")
	})
	return app
}

func TestRequestID_Generated(t *testing.T) {
	var buf bytes.Buffer
	resp, err := newApp(&buf).Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)

	id := resp.Header.Get(HeaderRequestID)
	assert.Len(t, id, 36)

	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	assert.Equal(t, id, body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(HeaderRequestID, "abc-123")

	resp, err := newApp(&buf).Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
}

func TestLogging_RecordsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	resp, err := newApp(&buf).Test(httptest.NewRequest("GET", "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	line := strings.TrimSpace(buf.String())
	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &event))
	assert.Equal(t, "warn", event["level"])
	assert.EqualValues(t, 400, event["status"])
	assert.Equal(t, "/bad", event["path"])
}
