package loggingmw

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
)

const completed = "request completed"

// RequestLogger scopes a logger to each request and, once the handler chain has
// run, writes a single access line. Authenticated requests also carry the
// caller's user_id and role.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			l := base.With(requestAttrs(c)...)
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			attrs := []any{
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", res.Size,
			}
			if id := authmw.UserID(c); id != 0 {
				attrs = append(attrs, "user_id", id, "role", authmw.Role(c))
			}
			if err != nil && res.Status >= 500 {
				attrs = append(attrs, "error", err.Error())
			}
			l.Log(context.Background(), levelFor(res.Status), completed, attrs...)
			return nil
		}
	}
}

func requestAttrs(c echo.Context) []any {
	req := c.Request()
	attrs := []any{
		"method", req.Method,
		"route", c.Path(),
		"url", req.URL.Path,
		"remote_ip", c.RealIP(),
	}

	rid := req.Header.Get(echo.HeaderXRequestID)
	if rid == "" {
		rid = c.Response().Header().Get(echo.HeaderXRequestID)
	}
	if rid != "" {
		attrs = append(attrs, "request_id", rid)
	}
	return attrs
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
