package handler

import (
	"net/http"

	"invoice-service/internal/service"
	"invoice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSuppliers returns active suppliers
func (h *Handler) ListSuppliers(c echo.Context) error {
	suppliers, err := h.catalog.ListSuppliers(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    suppliers,
	})
}

// CreateSupplier registers a new supplier
func (h *Handler) CreateSupplier(c echo.Context) error {
	var req service.SupplierInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
		return h.fail(c, service.Validationf("Invalid request data"))
	}

	supplier, err := h.catalog.CreateSupplier(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    supplier,
		"message": "Supplier created successfully",
	})
}

// DeleteSupplier removes a supplier that has no invoices
func (h *Handler) DeleteSupplier(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, service.Validationf("Invalid supplier ID"))
	}

	if err := h.catalog.DeleteSupplier(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Supplier deleted successfully",
	})
}

// ListProducts returns active products
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    products,
	})
}

// CreateProduct registers a new product
func (h *Handler) CreateProduct(c echo.Context) error {
	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
		return h.fail(c, service.Validationf("Invalid request data"))
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    product,
		"message": "Product created successfully",
	})
}
