package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/souq/pkg/logging"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	AccountHandler *AccountHTTP
	OrderHandler   *OrderHTTP
	// Ready reports whether backing services answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("readiness_failed", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PATCH("/:id", d.CatalogHandler.PatchProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	auth := api.Group("/auth")
	auth.POST("/customer/register", d.AccountHandler.Register)
	auth.POST("/customer/login", d.AccountHandler.Login)
	auth.POST("/admin/login", d.AccountHandler.AdminLogin)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id", d.OrderHandler.UpdateStatus)
	orders.POST("/:id/advance", d.OrderHandler.AdvanceStatus)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)

	api.GET("/customers/:id/orders", d.OrderHandler.CustomerOrders)
	api.GET("/admin/stats", d.OrderHandler.Stats)
}
