package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice statuses
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusPending   = "pending"
	InvoiceStatusApproved  = "approved"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// DateLayout is the wire and storage format of invoice dates
const DateLayout = "2006-01-02"

// Invoice is a purchase invoice received from a supplier. Its amounts are
// fixed when the invoice is created.
type Invoice struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	InvoiceNumber  string          `json:"invoice_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	SupplierID     uint            `json:"supplier_id" gorm:"not null;index"`
	Supplier       *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	InvoiceDate    datatypes.Date  `json:"invoice_date" gorm:"not null;index"`
	DueDate        *datatypes.Date `json:"due_date,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:numeric(15,2);not null;default:0"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:numeric(15,2);not null;default:0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(15,2);not null;default:0"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(15,2);not null;default:0"`
	Status         string          `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	Notes          string          `json:"notes" gorm:"type:text"`
	CreatedBy      string          `json:"created_by" gorm:"type:varchar(100);default:system"`
	Items          []InvoiceItem   `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InvoiceItem is one line of an invoice. Product code and name are copied
// from the submitted line so later catalog edits do not change history.
type InvoiceItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	InvoiceID   uint            `json:"invoice_id" gorm:"not null;index"`
	ProductID   uint            `json:"product_id" gorm:"not null;index"`
	Product     *Product        `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductCode string          `json:"product_code" gorm:"type:varchar(20);not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3);not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(15,2);not null"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:numeric(15,2);not null"`
	Notes       string          `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FormatDate renders a stored date in DateLayout
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}
