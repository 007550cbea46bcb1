package service

import (
	"context"
	"errors"

	"invoice-service/internal/model"
	"invoice-service/internal/store"
	"invoice-service/pkg/config"
	"invoice-service/pkg/logger"
	"invoice-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// state names a step of one invoice creation
type state string

const (
	stateValidating        state = "validating"
	stateResolvingSupplier state = "resolving_supplier"
	stateComputing         state = "computing"
	stateInsertingInvoice  state = "inserting_invoice"
	stateInsertingItems    state = "inserting_items"
	stateCommitted         state = "committed"
	stateRollingBack       state = "rolling_back"
	stateFailed            state = "failed"
)

// CreateInvoiceResult identifies a newly recorded invoice
type CreateInvoiceResult struct {
	ID            uint            `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`

	// Invoice is the persisted invoice with its items
	Invoice *model.Invoice `json:"-"`
}

// InvoiceWorkflow records a purchase invoice together with its items
type InvoiceWorkflow struct {
	gateway        store.Gateway
	metrics        *prometheus.Metrics
	defaultStatus  string
	createdBy      string
	useTransaction bool
}

// NewInvoiceWorkflow builds a workflow over gw. A gateway that cannot run
// transactions is always driven with compensating deletes.
func NewInvoiceWorkflow(gw store.Gateway, metrics *prometheus.Metrics, cfg config.InvoiceConfig) *InvoiceWorkflow {
	w := &InvoiceWorkflow{
		gateway:       gw,
		metrics:       metrics,
		defaultStatus: cfg.DefaultStatus,
		createdBy:     cfg.CreatedBy,
	}
	if w.defaultStatus == "" {
		w.defaultStatus = model.InvoiceStatusPending
	}
	if w.createdBy == "" {
		w.createdBy = "system"
	}
	if _, ok := gw.(store.Transactor); ok {
		w.useTransaction = cfg.WriteMode != config.WriteModeCompensate
	}
	return w
}

// Create validates in and records the invoice. Either the invoice and all of
// its items are stored, or nothing is.
func (w *InvoiceWorkflow) Create(ctx context.Context, in CreateInvoiceInput) (*CreateInvoiceResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("invoice_number", in.InvoiceNumber),
		zap.String("supplier_code", in.SupplierCode),
	)

	res, err := w.create(ctx, log, in)
	if err != nil {
		enter(log, stateFailed)
		w.metrics.RecordInvoiceOperation("create", string(KindOf(err)))
		return nil, err
	}

	enter(log, stateCommitted)
	w.metrics.RecordInvoiceOperation("create", "success")
	w.metrics.ObserveInvoiceItems(len(res.Invoice.Items))
	log.Info("Invoice created successfully",
		zap.Uint("invoice_id", res.ID),
		zap.String("total_amount", res.TotalAmount.StringFixed(2)),
		zap.Int("items", len(res.Invoice.Items)))
	return res, nil
}

func (w *InvoiceWorkflow) create(ctx context.Context, log *zap.Logger, in CreateInvoiceInput) (*CreateInvoiceResult, error) {
	enter(log, stateValidating)
	v, err := validate(in)
	if err != nil {
		return nil, err
	}

	enter(log, stateResolvingSupplier)
	supplier, err := w.gateway.FindActiveSupplierByCode(ctx, v.in.SupplierCode)
	if err != nil {
		return nil, Internal("Failed to look up supplier", err)
	}
	if supplier == nil {
		return nil, NotFoundf("Supplier with code '%s' not found or inactive", v.in.SupplierCode)
	}

	enter(log, stateComputing)
	total := invoiceTotal(v.in.Items)
	invoice := w.newInvoice(v, supplier, total)

	var created int
	if w.useTransaction {
		err = w.gateway.(store.Transactor).Transaction(ctx, func(gw store.Gateway) error {
			var txErr error
			_, created, txErr = w.write(ctx, log, gw, invoice, v.in.Items)
			return txErr
		})
	} else {
		var written bool
		written, created, err = w.write(ctx, log, w.gateway, invoice, v.in.Items)
		if err != nil && written {
			w.compensate(ctx, log, invoice.ID)
		}
	}
	if err != nil {
		var se *Error
		if !errors.As(err, &se) {
			err = Internal("Failed to save invoice", err)
		}
		return nil, err
	}

	for i := 0; i < created; i++ {
		w.metrics.RecordProductAutoCreated()
	}
	return &CreateInvoiceResult{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		TotalAmount:   invoice.TotalAmount,
		Invoice:       invoice,
	}, nil
}

func (w *InvoiceWorkflow) newInvoice(v *validInvoice, supplier *model.Supplier, total decimal.Decimal) *model.Invoice {
	createdBy := v.in.CreatedBy
	if createdBy == "" {
		createdBy = w.createdBy
	}
	invoice := &model.Invoice{
		InvoiceNumber:  v.in.InvoiceNumber,
		SupplierID:     supplier.ID,
		Supplier:       supplier,
		InvoiceDate:    datatypes.Date(v.invoiceDate),
		Subtotal:       total,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    total,
		Status:         w.defaultStatus,
		Notes:          v.in.Notes,
		CreatedBy:      createdBy,
	}
	if v.dueDate != nil {
		due := datatypes.Date(*v.dueDate)
		invoice.DueDate = &due
	}
	return invoice
}

// write inserts the invoice header, resolves every product and inserts the
// items. written reports whether the header reached the store.
func (w *InvoiceWorkflow) write(ctx context.Context, log *zap.Logger, gw store.Gateway, invoice *model.Invoice, items []ItemInput) (written bool, created int, err error) {
	enter(log, stateInsertingInvoice)
	if err := gw.InsertInvoice(ctx, invoice); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return false, 0, Conflictf(err, "Invoice number '%s' already exists", invoice.InvoiceNumber)
		}
		if errors.Is(err, store.ErrReferenced) {
			return false, 0, NotFoundf("Supplier with code '%s' not found or inactive", invoice.Supplier.SupplierCode)
		}
		return false, 0, Internal("Failed to create invoice", err)
	}

	enter(log, stateInsertingItems)
	rows := make([]model.InvoiceItem, 0, len(items))
	for _, item := range items {
		product, isNew, err := gw.GetOrCreateProduct(ctx, &model.Product{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Category:    model.DefaultProductCategory,
			Unit:        model.DefaultProductUnit,
			BasePrice:   item.UnitPrice.Decimal.Round(2),
			Status:      model.StatusActive,
		})
		if err != nil {
			return true, created, Internal("Failed to resolve product "+item.ProductCode, err)
		}
		if isNew {
			created++
			log.Debug("Product created from invoice item", zap.String("product_code", item.ProductCode))
		}

		rows = append(rows, model.InvoiceItem{
			InvoiceID:   invoice.ID,
			ProductID:   product.ID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity.Decimal,
			UnitPrice:   item.UnitPrice.Decimal,
			LineTotal:   lineTotal(item),
			Notes:       item.Notes,
		})
	}

	if err := gw.InsertInvoiceItems(ctx, rows); err != nil {
		return true, created, Internal("Failed to create invoice items", err)
	}
	invoice.Items = rows
	return true, created, nil
}

// compensate removes a partially written invoice. Its failure is logged and
// never replaces the error that triggered it.
func (w *InvoiceWorkflow) compensate(ctx context.Context, log *zap.Logger, id uint) {
	enter(log, stateRollingBack)
	// The request may already be cancelled; the cleanup still has to run
	if err := w.gateway.DeleteInvoice(context.WithoutCancel(ctx), id); err != nil {
		w.metrics.RecordCompensation(false)
		log.Error("Failed to remove partially created invoice",
			zap.Uint("invoice_id", id),
			zap.Error(err))
		return
	}
	w.metrics.RecordCompensation(true)
	log.Warn("Removed partially created invoice", zap.Uint("invoice_id", id))
}

func enter(log *zap.Logger, s state) {
	log.Debug("Invoice workflow state", zap.String("state", string(s)))
}
