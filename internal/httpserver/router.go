package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/Skotchmaster/safari_vendors/internal/db"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
	"github.com/Skotchmaster/safari_vendors/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	ReviewHandler  *ReviewHTTP

	Bearer *authmw.BearerAuth
	DB     *gorm.DB

	// AuthRateLimit is requests per second per client for the credential endpoints; 0 disables it.
	AuthRateLimit float64
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	var limit []echo.MiddlewareFunc
	if d.AuthRateLimit > 0 {
		limit = append(limit, echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(d.AuthRateLimit))))
	}
	e.POST("/register", d.AuthHandler.Register, limit...)
	e.POST("/login", d.AuthHandler.Login, limit...)
	e.POST("/refresh", d.AuthHandler.Refresh, limit...)

	e.POST("/logout", d.AuthHandler.Logout, d.Bearer.RequireAuth)
	e.GET("/me", d.AuthHandler.Me, d.Bearer.RequireAuth)

	e.GET("/products", d.CatalogHandler.GetProducts)
	e.GET("/products/search", d.CatalogHandler.SearchProducts)
	e.GET("/products/:id/vendors", d.CatalogHandler.ListVendors)
	e.GET("/products/:id/reviews", d.ReviewHandler.ListReviews)

	products := e.Group("/products", d.Bearer.RequireAuth)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.PATCH("/:id", d.CatalogHandler.PatchProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	products.POST("/:id/reviews", d.ReviewHandler.CreateReview)
	products.PATCH("/:id/reviews/:review_id", d.ReviewHandler.PatchReview)
	products.DELETE("/:id/reviews/:review_id", d.ReviewHandler.DeleteReview)

	vendorOnly := authmw.RequireRoles(models.RoleVendor)
	products.POST("/:id/vendors", d.CatalogHandler.AddVendor, vendorOnly)
	products.DELETE("/:id/vendors", d.CatalogHandler.RemoveVendor, vendorOnly)

	cart := e.Group("/cart", d.Bearer.RequireAuth, authmw.RequireRoles(models.RoleBuyer))
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.CreateCart)
	cart.PATCH("", d.CartHandler.ReplaceCart)
	cart.DELETE("", d.CartHandler.DeleteCart)

	orders := e.Group("/orders", d.Bearer.RequireAuth, authmw.RequireRoles(models.RoleBuyer))
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
	e.POST("/checkout", d.OrderHandler.Checkout, d.Bearer.RequireAuth, authmw.RequireRoles(models.RoleBuyer))

	e.GET("/vendor/orders", d.OrderHandler.ListVendorOrders, d.Bearer.RequireAuth, authmw.RequireRoles(models.RoleVendor))
}
