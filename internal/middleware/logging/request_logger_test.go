package loggingmw

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	return rec
}

func TestRequestLogger_InjectsLoggerAndLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "debug")

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/products/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/products/5", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"inside_handler"`)

	last := lastRecord(t, &buf)
	assert.Equal(t, "request completed", last["msg"])
	assert.Equal(t, "/products/:id", last["route"])
	assert.Equal(t, "rid-1", last["request_id"])
	assert.EqualValues(t, 204, last["status"])
	assert.NotContains(t, last, "user_id")
}

func TestRequestLogger_HandlesErrorsOnce(t *testing.T) {
	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "debug")

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")

	last := lastRecord(t, &buf)
	assert.Equal(t, "WARN", last["level"])
	assert.EqualValues(t, 404, last["status"])
}

func TestRequestLogger_RecordsCaller(t *testing.T) {
	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "debug")

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/me", func(c echo.Context) error {
		// what the bearer middleware stores for an authenticated buyer
		c.Set("user_id", uint(7))
		c.Set("role", "buyer")
		return c.JSON(http.StatusOK, map[string]string{"ok": "yes"})
	})
	e.GET("/fail", func(c echo.Context) error {
		return errors.New("db down")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	last := lastRecord(t, &buf)
	assert.Equal(t, "INFO", last["level"])
	assert.EqualValues(t, 7, last["user_id"])
	assert.Equal(t, "buyer", last["role"])
	assert.Positive(t, last["bytes"])

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	last = lastRecord(t, &buf)
	assert.Equal(t, "ERROR", last["level"])
	assert.Equal(t, "db down", last["error"])
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelFor(http.StatusOK))
	assert.Equal(t, slog.LevelInfo, levelFor(http.StatusFound))
	assert.Equal(t, slog.LevelWarn, levelFor(http.StatusTooManyRequests))
	assert.Equal(t, slog.LevelError, levelFor(http.StatusServiceUnavailable))
}
