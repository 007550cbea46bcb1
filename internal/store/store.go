// Package store is the gateway between the invoice service and its
// relational backend. Every call takes the request context and performs its
// own round trip; nothing is cached.
package store

import (
	"context"
	"errors"
	"time"

	"invoice-service/internal/model"
	"invoice-service/prometheus"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway errors
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrReferenced   = errors.New("record is still referenced")
	ErrNotFound     = errors.New("record not found")
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique index conflicts
const pgUniqueViolation = "23505"

// pgForeignKeyViolation is the SQLSTATE for foreign key conflicts
const pgForeignKeyViolation = "23503"

// Gateway holds the write operations used by the invoice workflow
type Gateway interface {
	FindActiveSupplierByCode(ctx context.Context, code string) (*model.Supplier, error)
	FindProductByCode(ctx context.Context, code string) (*model.Product, error)
	InsertProduct(ctx context.Context, p *model.Product) error
	GetOrCreateProduct(ctx context.Context, p *model.Product) (*model.Product, bool, error)
	InsertInvoice(ctx context.Context, inv *model.Invoice) error
	InsertInvoiceItems(ctx context.Context, items []model.InvoiceItem) error
	DeleteInvoice(ctx context.Context, id uint) error
}

// Transactor is implemented by gateways able to run a unit of work atomically
type Transactor interface {
	Transaction(ctx context.Context, fn func(Gateway) error) error
}

// Store is the gorm implementation of Gateway and of the read queries
type Store struct {
	db      *gorm.DB
	metrics *prometheus.Metrics
}

// New wraps db. metrics may be nil.
func New(db *gorm.DB, metrics *prometheus.Metrics) *Store {
	return &Store{db: db, metrics: metrics}
}

// DB exposes the underlying session for maintenance tasks
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) track(op string) func(time.Time) {
	return s.metrics.TrackDBOperation(op)
}

// Transaction runs fn against a gateway bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(Gateway) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, metrics: s.metrics})
	})
}

// FindActiveSupplierByCode returns nil when no active supplier has code
func (s *Store) FindActiveSupplierByCode(ctx context.Context, code string) (*model.Supplier, error) {
	defer s.track("select_supplier")(time.Now())

	var supplier model.Supplier
	err := s.db.WithContext(ctx).
		Where("supplier_code = ? AND status = ?", code, model.StatusActive).
		Take(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindProductByCode returns nil when no product has code
func (s *Store) FindProductByCode(ctx context.Context, code string) (*model.Product, error) {
	defer s.track("select_product")(time.Now())

	var product model.Product
	err := s.db.WithContext(ctx).Where("product_code = ?", code).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// InsertProduct creates p, reporting ErrDuplicateKey when the code is taken
func (s *Store) InsertProduct(ctx context.Context, p *model.Product) error {
	defer s.track("insert_product")(time.Now())
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

// GetOrCreateProduct inserts p unless a product with the same code exists and
// returns the stored row. The insert and the conflict check are one statement,
// so concurrent callers never fail on the unique index.
func (s *Store) GetOrCreateProduct(ctx context.Context, p *model.Product) (*model.Product, bool, error) {
	defer s.track("upsert_product")(time.Now())

	db := s.db.WithContext(ctx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_code"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return nil, false, translate(res.Error)
	}

	var stored model.Product
	if err := db.Where("product_code = ?", p.ProductCode).Take(&stored).Error; err != nil {
		return nil, false, err
	}
	return &stored, res.RowsAffected == 1, nil
}

// InsertInvoice creates the invoice header only. Items are inserted separately.
func (s *Store) InsertInvoice(ctx context.Context, inv *model.Invoice) error {
	defer s.track("insert_invoice")(time.Now())
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error)
}

// InsertInvoiceItems creates items in slice order
func (s *Store) InsertInvoiceItems(ctx context.Context, items []model.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	defer s.track("insert_invoice_items")(time.Now())
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error)
}

// DeleteInvoice removes an invoice and its items. Deleting a missing invoice
// is not an error.
func (s *Store) DeleteInvoice(ctx context.Context, id uint) error {
	defer s.track("delete_invoice")(time.Now())

	db := s.db.WithContext(ctx)
	if err := db.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Invoice{}, id).Error
}

// translate maps backend constraint errors onto the gateway errors
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrDuplicateKey, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Join(ErrReferenced, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicateKey, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReferenced, err)
		}
	}
	return err
}
