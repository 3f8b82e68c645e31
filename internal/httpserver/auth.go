package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
	"github.com/Skotchmaster/safari_vendors/internal/service"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) tokenResponse(res *service.LoginResult) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  res.Pair.AccessToken,
		RefreshToken: res.Pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.Svc.Tokens.AccessTTL.Seconds()),
		UserType:     res.Role,
		ID:           res.ID,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success")
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"buyer":   res.Buyer,
		"vendor":  res.Vendor,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_type", res.Role, "id", res.ID)
	return c.JSON(http.StatusOK, h.tokenResponse(res))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "refresh_error", "invalid body", err)
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(l, "refresh_error", err)
	}

	l.Info("refresh_success", "id", res.ID)
	return c.JSON(http.StatusOK, h.tokenResponse(res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "logout_error", "invalid body", err)
	}

	if err := h.Svc.Logout(ctx, callerOf(c), authmw.TokenID(c), authmw.SessionID(c), req.RefreshToken); err != nil {
		return fail(l, "logout_error", err)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	account, err := h.Svc.Me(ctx, callerOf(c))
	if err != nil {
		return fail(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user_type": account.AccountRole(),
		"account":   account,
	})
}
