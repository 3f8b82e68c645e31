package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := Role(c)
			if role == "" {
				return echo.NewHTTPError(http.StatusForbidden, "role missing")
			}
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access denied for role "+role)
		}
	}
}

func UserID(c echo.Context) uint {
	id, _ := c.Get(ctxUserID).(uint)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}

func TokenID(c echo.Context) string {
	jti, _ := c.Get(ctxJTI).(string)
	return jti
}

func SessionID(c echo.Context) string {
	sid, _ := c.Get(ctxSID).(string)
	return sid
}
