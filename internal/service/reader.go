package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"invoice-service/internal/model"
	"invoice-service/internal/store"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// statsWindow is how far back monthly statistics look
const statsWindow = 180 * 24 * time.Hour

// statsMonths caps the number of monthly buckets returned
const statsMonths = 6

// InvoiceQueries is the read side of the store used by Reader
type InvoiceQueries interface {
	ListInvoices(ctx context.Context) ([]store.InvoiceRow, error)
	GetInvoice(ctx context.Context, id uint) (*model.Invoice, error)
	InvoiceTotals(ctx context.Context) (store.Totals, error)
	InvoiceAmountsSince(ctx context.Context, since time.Time) ([]store.DatedAmount, error)
}

// InvoiceSummary is one row of the invoice list
type InvoiceSummary struct {
	ID            uint            `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       *string         `json:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	CreatedBy     string          `json:"created_by"`
	SupplierID    uint            `json:"supplier_id"`
	SupplierCode  string          `json:"supplier_code"`
	SupplierName  string          `json:"supplier_name"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceItemDetail is one line of an invoice as it was recorded
type InvoiceItemDetail struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Notes       string          `json:"notes"`
}

// InvoiceDetail is an invoice with supplier contact data and its items
type InvoiceDetail struct {
	InvoiceSummary
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	SupplierAddress string              `json:"supplier_address"`
	SupplierPhone   string              `json:"supplier_phone"`
	SupplierEmail   string              `json:"supplier_email"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []InvoiceItemDetail `json:"items"`
}

// MonthlyStat aggregates the invoices dated in one calendar month
type MonthlyStat struct {
	Month        string          `json:"month"`
	InvoiceCount int             `json:"invoice_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// DashboardStats are the headline figures of the dashboard
type DashboardStats struct {
	TotalInvoices int64           `json:"totalInvoices"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalItems    decimal.Decimal `json:"totalItems"`
	MonthlyStats  []MonthlyStat   `json:"monthlyStats"`
}

// Reader answers invoice list, detail and statistics queries
type Reader struct {
	queries InvoiceQueries
	now     func() time.Time
}

// NewReader returns a Reader over q
func NewReader(q InvoiceQueries) *Reader {
	return &Reader{queries: q, now: time.Now}
}

// ListInvoices returns all invoices, newest invoice date first
func (r *Reader) ListInvoices(ctx context.Context) ([]InvoiceSummary, error) {
	rows, err := r.queries.ListInvoices(ctx)
	if err != nil {
		return nil, Internal("Failed to fetch invoices", err)
	}

	out := make([]InvoiceSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, InvoiceSummary{
			ID:            row.ID,
			InvoiceNumber: row.InvoiceNumber,
			InvoiceDate:   model.FormatDate(row.InvoiceDate),
			DueDate:       formatOptionalDate(row.DueDate),
			TotalAmount:   row.TotalAmount,
			Status:        row.Status,
			Notes:         row.Notes,
			CreatedBy:     row.CreatedBy,
			SupplierID:    row.SupplierID,
			SupplierCode:  row.SupplierCode,
			SupplierName:  row.SupplierName,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out, nil
}

// GetInvoiceDetail returns one invoice with its items in submission order
func (r *Reader) GetInvoiceDetail(ctx context.Context, id uint) (*InvoiceDetail, error) {
	inv, err := r.queries.GetInvoice(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundf("Invoice not found")
	}
	if err != nil {
		return nil, Internal("Failed to fetch invoice", err)
	}

	detail := &InvoiceDetail{
		InvoiceSummary: InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   model.FormatDate(inv.InvoiceDate),
			DueDate:       formatOptionalDate(inv.DueDate),
			TotalAmount:   inv.TotalAmount,
			Status:        inv.Status,
			Notes:         inv.Notes,
			CreatedBy:     inv.CreatedBy,
			SupplierID:    inv.SupplierID,
			CreatedAt:     inv.CreatedAt,
		},
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		UpdatedAt:      inv.UpdatedAt,
		Items:          make([]InvoiceItemDetail, 0, len(inv.Items)),
	}
	if s := inv.Supplier; s != nil {
		detail.SupplierCode = s.SupplierCode
		detail.SupplierName = s.SupplierName
		detail.SupplierAddress = s.Address
		detail.SupplierPhone = s.Phone
		detail.SupplierEmail = s.Email
	}
	for _, item := range inv.Items {
		detail.Items = append(detail.Items, InvoiceItemDetail{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Notes:       item.Notes,
		})
	}
	return detail, nil
}

// GetDashboardStats recomputes the dashboard figures from the store
func (r *Reader) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	totals, err := r.queries.InvoiceTotals(ctx)
	if err != nil {
		return nil, Internal("Failed to fetch dashboard stats", err)
	}

	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	amounts, err := r.queries.InvoiceAmountsSince(ctx, today.Add(-statsWindow))
	if err != nil {
		return nil, Internal("Failed to fetch dashboard stats", err)
	}

	return &DashboardStats{
		TotalInvoices: totals.InvoiceCount,
		TotalValue:    totals.TotalValue,
		TotalItems:    totals.ItemQuantity,
		MonthlyStats:  groupByMonth(amounts),
	}, nil
}

// groupByMonth buckets amounts by YYYY-MM, newest month first
func groupByMonth(amounts []store.DatedAmount) []MonthlyStat {
	byMonth := map[string]*MonthlyStat{}
	for _, a := range amounts {
		month := time.Time(a.InvoiceDate).Format("2006-01")
		stat, ok := byMonth[month]
		if !ok {
			stat = &MonthlyStat{Month: month, TotalAmount: decimal.Zero}
			byMonth[month] = stat
		}
		stat.InvoiceCount++
		stat.TotalAmount = stat.TotalAmount.Add(a.TotalAmount)
	}

	out := make([]MonthlyStat, 0, len(byMonth))
	for _, stat := range byMonth {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	if len(out) > statsMonths {
		out = out[:statsMonths]
	}
	return out
}

func formatOptionalDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := model.FormatDate(*d)
	return &s
}
