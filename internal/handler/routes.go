package handler

import "github.com/labstack/echo/v4"

// Register mounts the API on e, both at the root and under /api
func Register(e *echo.Echo, h *Handler) {
	e.GET("/health", h.Health)

	for _, g := range []*echo.Group{e.Group(""), e.Group("/api")} {
		g.GET("/invoices", h.ListInvoices)
		g.POST("/invoices", h.CreateInvoice)
		g.GET("/invoices/:id", h.GetInvoice)

		g.GET("/suppliers", h.ListSuppliers)
		g.POST("/suppliers", h.CreateSupplier)
		g.DELETE("/suppliers/:id", h.DeleteSupplier)

		g.GET("/products", h.ListProducts)
		g.POST("/products", h.CreateProduct)

		g.GET("/dashboard/stats", h.DashboardStats)

		g.GET("/test-db", h.TestDB)
		g.POST("/setup-database", h.SetupDatabase)
	}
}
