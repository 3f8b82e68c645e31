package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
	"github.com/Skotchmaster/safari_vendors/internal/service"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.Svc.GetCart(ctx, authmw.UserID(c))
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create")

	cart, err := h.Svc.CreateCart(ctx, authmw.UserID(c))
	if err != nil {
		return fail(l, "create_cart_error", err)
	}

	l.Info("create_cart_success", "cart_id", cart.ID)
	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHTTP) ReplaceCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.replace")

	var req transport.ReplaceCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "replace_cart_error", "invalid body", err)
	}

	cart, err := h.Svc.ReplaceContents(ctx, authmw.UserID(c), req.ProductIDs)
	if err != nil {
		return fail(l, "replace_cart_error", err)
	}

	l.Info("replace_cart_success", "cart_id", cart.ID, "items", len(cart.Products))
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) DeleteCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	if err := h.Svc.DeleteCart(ctx, authmw.UserID(c)); err != nil {
		return fail(l, "delete_cart_error", err)
	}

	l.Info("delete_cart_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Cart deleted"})
}
