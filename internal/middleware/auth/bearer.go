package auth

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/tokens"
)

const (
	ctxToken  = "token"
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxJTI    = "jti"
	ctxSID    = "sid"
)

// RevocationChecker reports whether any of the given token or session ids is blocklisted.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, ids ...string) (bool, error)
}

type BearerAuth struct {
	parse   echo.MiddlewareFunc
	revoked RevocationChecker
}

func NewBearerAuth(secret []byte, revoked RevocationChecker) *BearerAuth {
	return &BearerAuth{
		parse: echojwt.WithConfig(echojwt.Config{
			SigningKey:    secret,
			SigningMethod: jwt.SigningMethodHS256.Alg(),
			ContextKey:    ctxToken,
			TokenLookup:   "header:Authorization:Bearer ",
			NewClaimsFunc: func(echo.Context) jwt.Claims { return new(tokens.Claims) },
			ErrorHandler: func(c echo.Context, err error) error {
				logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 401, "reason", "invalid bearer token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			},
		}),
		revoked: revoked,
	}
}

// RequireAuth accepts requests carrying a valid, unrevoked access token and exposes
// the caller's id, role and token id on the echo context.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.parse(m.checkClaims(next))
}

func (m *BearerAuth) checkClaims(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		token, ok := c.Get(ctxToken).(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}
		claims, ok := token.Claims.(*tokens.Claims)
		if !ok || claims.ID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}
		if err := claims.Expect(tokens.TypeAccess); err != nil {
			l.Warn("auth_error", "status", 401, "reason", "not an access token", "typ", claims.Type)
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}
		id, err := claims.AccountID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}
		if claims.Role != models.RoleBuyer && claims.Role != models.RoleVendor {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		}

		revoked, err := m.revoked.IsRevoked(ctx, claims.ID, claims.SessionID)
		if err != nil {
			l.Error("auth_error", "status", 500, "reason", "cannot check blocklist", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		if revoked {
			l.Warn("auth_error", "status", 401, "reason", "token revoked")
			return echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked")
		}

		setUserContext(c, id, claims)
		return next(c)
	}
}

func setUserContext(c echo.Context, id uint, claims *tokens.Claims) {
	c.Set(ctxUserID, id)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxJTI, claims.ID)
	c.Set(ctxSID, claims.SessionID)
}
