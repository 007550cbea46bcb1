package store

import (
	"context"
	"errors"
	"time"

	"invoice-service/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceRow is an invoice header joined with its supplier's identity
type InvoiceRow struct {
	ID            uint
	InvoiceNumber string
	SupplierID    uint
	SupplierCode  string
	SupplierName  string
	InvoiceDate   datatypes.Date
	DueDate       *datatypes.Date
	TotalAmount   decimal.Decimal
	Status        string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// Totals are the headline aggregates over all invoices
type Totals struct {
	InvoiceCount int64
	TotalValue   decimal.Decimal
	ItemQuantity decimal.Decimal
}

// DatedAmount is the date and total of one invoice
type DatedAmount struct {
	InvoiceDate datatypes.Date
	TotalAmount decimal.Decimal
}

// ListActiveSuppliers returns active suppliers ordered by name
func (s *Store) ListActiveSuppliers(ctx context.Context) ([]model.Supplier, error) {
	defer s.track("select_suppliers")(time.Now())

	suppliers := []model.Supplier{}
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusActive).
		Order("supplier_name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

// ListActiveProducts returns active products ordered by name
func (s *Store) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	defer s.track("select_products")(time.Now())

	products := []model.Product{}
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusActive).
		Order("product_name ASC").
		Find(&products).Error
	return products, err
}

// InsertSupplier creates a supplier, reporting ErrDuplicateKey when the code is taken
func (s *Store) InsertSupplier(ctx context.Context, supplier *model.Supplier) error {
	defer s.track("insert_supplier")(time.Now())
	return translate(s.db.WithContext(ctx).Create(supplier).Error)
}

// DeleteSupplier hard-deletes a supplier. It fails with ErrReferenced while
// invoices point at the supplier and with ErrNotFound when there is no such row.
func (s *Store) DeleteSupplier(ctx context.Context, id uint) error {
	defer s.track("delete_supplier")(time.Now())

	db := s.db.WithContext(ctx)
	var refs int64
	if err := db.Model(&model.Invoice{}).Where("supplier_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrReferenced
	}

	res := db.Delete(&model.Supplier{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInvoices returns every invoice, newest invoice date first
func (s *Store) ListInvoices(ctx context.Context) ([]InvoiceRow, error) {
	defer s.track("select_invoices")(time.Now())

	rows := []InvoiceRow{}
	err := s.db.WithContext(ctx).
		Table("invoices").
		Select(`invoices.id, invoices.invoice_number, invoices.supplier_id,
			suppliers.supplier_code, suppliers.supplier_name,
			invoices.invoice_date, invoices.due_date, invoices.total_amount,
			invoices.status, invoices.notes, invoices.created_by, invoices.created_at`).
		Joins("JOIN suppliers ON suppliers.id = invoices.supplier_id").
		Order("invoices.invoice_date DESC").
		Order("invoices.created_at DESC").
		Order("invoices.id DESC").
		Scan(&rows).Error
	return rows, err
}

// GetInvoice loads an invoice with its supplier and its items in insertion
// order. It returns ErrNotFound when id does not exist.
func (s *Store) GetInvoice(ctx context.Context, id uint) (*model.Invoice, error) {
	defer s.track("select_invoice")(time.Now())

	var invoice model.Invoice
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_items.id ASC")
		}).
		Take(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// InvoiceTotals computes the invoice count, total value and item quantity
func (s *Store) InvoiceTotals(ctx context.Context) (Totals, error) {
	defer s.track("aggregate_invoices")(time.Now())

	db := s.db.WithContext(ctx)
	var totals Totals

	if err := db.Model(&model.Invoice{}).Count(&totals.InvoiceCount).Error; err != nil {
		return Totals{}, err
	}

	var value, quantity decimal.NullDecimal
	if err := db.Model(&model.Invoice{}).Select("SUM(total_amount)").Row().Scan(&value); err != nil {
		return Totals{}, err
	}
	if err := db.Model(&model.InvoiceItem{}).Select("SUM(quantity)").Row().Scan(&quantity); err != nil {
		return Totals{}, err
	}
	totals.TotalValue = orZero(value)
	totals.ItemQuantity = orZero(quantity)
	return totals, nil
}

// InvoiceAmountsSince returns date and total of invoices dated on or after since
func (s *Store) InvoiceAmountsSince(ctx context.Context, since time.Time) ([]DatedAmount, error) {
	defer s.track("select_invoice_amounts")(time.Now())

	rows := []DatedAmount{}
	err := s.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Select("invoice_date, total_amount").
		Where("invoice_date >= ?", datatypes.Date(since)).
		Order("invoice_date DESC").
		Scan(&rows).Error
	return rows, err
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
