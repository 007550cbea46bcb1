package service

import (
	"context"
	"errors"
	"strings"

	"invoice-service/internal/model"
	"invoice-service/internal/store"
	"invoice-service/pkg/logger"
	"invoice-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogStore is the supplier and product side of the store
type CatalogStore interface {
	ListActiveSuppliers(ctx context.Context) ([]model.Supplier, error)
	ListActiveProducts(ctx context.Context) ([]model.Product, error)
	InsertSupplier(ctx context.Context, s *model.Supplier) error
	InsertProduct(ctx context.Context, p *model.Product) error
	DeleteSupplier(ctx context.Context, id uint) error
}

// SupplierInput is a request to register a supplier
type SupplierInput struct {
	SupplierCode  string `json:"supplier_code"`
	SupplierName  string `json:"supplier_name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person"`
}

// ProductInput is a request to register a product
type ProductInput struct {
	ProductCode string              `json:"product_code"`
	ProductName string              `json:"product_name"`
	Category    string              `json:"category"`
	Unit        string              `json:"unit"`
	BasePrice   decimal.NullDecimal `json:"base_price"`
	Description string              `json:"description"`
}

// Catalog manages suppliers and products
type Catalog struct {
	store   CatalogStore
	metrics *prometheus.Metrics
}

// NewCatalog returns a Catalog over s
func NewCatalog(s CatalogStore, metrics *prometheus.Metrics) *Catalog {
	return &Catalog{store: s, metrics: metrics}
}

// ListSuppliers returns active suppliers ordered by name
func (c *Catalog) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	c.metrics.RecordCatalogOperation("supplier", "list")
	suppliers, err := c.store.ListActiveSuppliers(ctx)
	if err != nil {
		return nil, Internal("Failed to fetch suppliers", err)
	}
	return suppliers, nil
}

// ListProducts returns active products ordered by name
func (c *Catalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	c.metrics.RecordCatalogOperation("product", "list")
	products, err := c.store.ListActiveProducts(ctx)
	if err != nil {
		return nil, Internal("Failed to fetch products", err)
	}
	return products, nil
}

// CreateSupplier registers an active supplier
func (c *Catalog) CreateSupplier(ctx context.Context, in SupplierInput) (*model.Supplier, error) {
	c.metrics.RecordCatalogOperation("supplier", "create")

	supplier := &model.Supplier{
		SupplierCode:  strings.TrimSpace(in.SupplierCode),
		SupplierName:  strings.TrimSpace(in.SupplierName),
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		ContactPerson: in.ContactPerson,
		Status:        model.StatusActive,
	}
	switch {
	case supplier.SupplierCode == "" || supplier.SupplierName == "":
		return nil, Validationf("Missing required fields: supplier_code, supplier_name")
	case len(supplier.SupplierCode) > 10:
		return nil, Validationf("supplier_code must be at most 10 characters")
	}

	if err := c.store.InsertSupplier(ctx, supplier); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, Conflictf(err, "Supplier with code '%s' already exists", supplier.SupplierCode)
		}
		return nil, Internal("Failed to create supplier", err)
	}

	logger.FromCtx(ctx).Info("Supplier created successfully",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("supplier_code", supplier.SupplierCode))
	return supplier, nil
}

// CreateProduct registers an active product
func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	c.metrics.RecordCatalogOperation("product", "create")

	product := &model.Product{
		ProductCode: strings.TrimSpace(in.ProductCode),
		ProductName: strings.TrimSpace(in.ProductName),
		Category:    in.Category,
		Unit:        in.Unit,
		Description: in.Description,
		Status:      model.StatusActive,
	}
	switch {
	case product.ProductCode == "" || product.ProductName == "":
		return nil, Validationf("Missing required fields: product_code, product_name")
	case len(product.ProductCode) > 20:
		return nil, Validationf("product_code must be at most 20 characters")
	case !in.BasePrice.Valid:
		return nil, Validationf("base_price is required")
	case in.BasePrice.Decimal.IsNegative():
		return nil, Validationf("base_price must not be negative")
	}
	product.BasePrice = in.BasePrice.Decimal.Round(2)
	if product.Category == "" {
		product.Category = model.DefaultProductCategory
	}
	if product.Unit == "" {
		product.Unit = model.DefaultProductUnit
	}

	if err := c.store.InsertProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, Conflictf(err, "Product with code '%s' already exists", product.ProductCode)
		}
		return nil, Internal("Failed to create product", err)
	}

	logger.FromCtx(ctx).Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("product_code", product.ProductCode))
	return product, nil
}

// DeleteSupplier removes a supplier that no invoice refers to
func (c *Catalog) DeleteSupplier(ctx context.Context, id uint) error {
	c.metrics.RecordCatalogOperation("supplier", "delete")

	err := c.store.DeleteSupplier(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return NotFoundf("Supplier not found")
	case errors.Is(err, store.ErrReferenced):
		return Conflictf(err, "Supplier is referenced by existing invoices")
	default:
		return Internal("Failed to delete supplier", err)
	}
}
