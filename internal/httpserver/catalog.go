package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/safari_vendors/internal/logging"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
	"github.com/Skotchmaster/safari_vendors/internal/service"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
	"github.com/Skotchmaster/safari_vendors/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	if c.QueryParam("page") == "" && c.QueryParam("size") == "" {
		products, err := h.Svc.ListProducts(ctx)
		if err != nil {
			return fail(l, "get_products_error", err)
		}
		return c.JSON(http.StatusOK, products)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListProductsPage(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "get_product_error", "id is not a positive integer", nil)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}

	product, err := h.Svc.CreateProduct(ctx, callerOf(c), req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "patch_product_error", "id is not a positive integer", nil)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_product_error", "invalid body", err)
	}

	product, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "delete_product_error", "id is not a positive integer", nil)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted"})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": util.Meta(page, offset, limit, res.Total),
	})
}

func (h *CatalogHTTP) ListVendors(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_vendors")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "list_vendors_error", "id is not a positive integer", nil)
	}

	vendors, err := h.Svc.ListVendors(ctx, id)
	if err != nil {
		return fail(l, "list_vendors_error", err)
	}
	return c.JSON(http.StatusOK, vendors)
}

func (h *CatalogHTTP) AddVendor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_vendor")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "add_vendor_error", "id is not a positive integer", nil)
	}

	if err := h.Svc.AddVendor(ctx, id, authmw.UserID(c)); err != nil {
		return fail(l, "add_vendor_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product listed"})
}

func (h *CatalogHTTP) RemoveVendor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.remove_vendor")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badRequest(l, "remove_vendor_error", "id is not a positive integer", nil)
	}

	if err := h.Svc.RemoveVendor(ctx, id, authmw.UserID(c)); err != nil {
		return fail(l, "remove_vendor_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product unlisted"})
}
