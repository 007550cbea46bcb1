package service

import (
	"strconv"
	"strings"
	"time"

	"invoice-service/internal/model"

	"github.com/shopspring/decimal"
)

// ItemInput is one submitted invoice line. Quantity and price are nullable so
// that a missing value can be told apart from zero.
type ItemInput struct {
	ProductCode string              `json:"product_code"`
	ProductName string              `json:"product_name"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	Notes       string              `json:"notes,omitempty"`
}

// CreateInvoiceInput is a request to record a new purchase invoice
type CreateInvoiceInput struct {
	InvoiceNumber string      `json:"invoice_number"`
	SupplierCode  string      `json:"supplier_code"`
	InvoiceDate   string      `json:"invoice_date"`
	DueDate       string      `json:"due_date,omitempty"`
	Items         []ItemInput `json:"items"`
	Notes         string      `json:"notes,omitempty"`
	CreatedBy     string      `json:"created_by,omitempty"`
}

// Column limits: money is numeric(15,2) and quantities are numeric(12,3)
var (
	maxAmount   = decimal.New(1, 13)
	maxQuantity = decimal.New(1, 9)
)

const (
	priceScale    = 2
	quantityScale = 3
)

// validInvoice is a request that passed validation
type validInvoice struct {
	in          CreateInvoiceInput
	invoiceDate time.Time
	dueDate     *time.Time
}

// validate checks in without touching the store. It stops at the first
// problem, naming the offending item.
func validate(in CreateInvoiceInput) (*validInvoice, error) {
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	in.SupplierCode = strings.TrimSpace(in.SupplierCode)
	in.InvoiceDate = strings.TrimSpace(in.InvoiceDate)

	var missing []string
	if in.InvoiceNumber == "" {
		missing = append(missing, "invoice_number")
	}
	if in.SupplierCode == "" {
		missing = append(missing, "supplier_code")
	}
	if in.InvoiceDate == "" {
		missing = append(missing, "invoice_date")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return nil, Validationf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	if len(in.InvoiceNumber) > 50 {
		return nil, Validationf("invoice_number must be at most 50 characters")
	}
	if len(in.SupplierCode) > 10 {
		return nil, Validationf("supplier_code must be at most 10 characters")
	}

	invoiceDate, err := time.Parse(model.DateLayout, in.InvoiceDate)
	if err != nil {
		return nil, Validationf("invoice_date must be a date in YYYY-MM-DD format")
	}

	v := &validInvoice{invoiceDate: invoiceDate}
	if due := strings.TrimSpace(in.DueDate); due != "" {
		d, err := time.Parse(model.DateLayout, due)
		if err != nil {
			return nil, Validationf("due_date must be a date in YYYY-MM-DD format")
		}
		if d.Before(invoiceDate) {
			return nil, Validationf("due_date must not be before invoice_date")
		}
		v.dueDate = &d
	}

	for i := range in.Items {
		item := &in.Items[i]
		item.ProductCode = strings.TrimSpace(item.ProductCode)
		item.ProductName = strings.TrimSpace(item.ProductName)
		if err := validateItem(i, *item); err != nil {
			return nil, err
		}
	}
	if invoiceTotal(in.Items).GreaterThanOrEqual(maxAmount) {
		return nil, Validationf("Invoice total must be less than %s", maxAmount)
	}

	v.in = in
	return v, nil
}

func validateItem(i int, item ItemInput) error {
	label := item.ProductName
	if label == "" {
		label = "#" + strconv.Itoa(i+1)
	}

	switch {
	case item.ProductName == "":
		return Validationf("Item %s: product_name is required", label)
	case item.ProductCode == "":
		return Validationf("Item %s: product_code is required", label)
	case len(item.ProductCode) > 20:
		return Validationf("Item %s: product_code must be at most 20 characters", label)
	case !item.Quantity.Valid:
		return Validationf("Item %s: quantity is required", label)
	case !item.Quantity.Decimal.IsPositive():
		return Validationf("Item %s: quantity must be greater than 0", label)
	case !item.UnitPrice.Valid:
		return Validationf("Item %s: unit_price is required", label)
	case !item.UnitPrice.Decimal.IsPositive():
		return Validationf("Item %s: unit_price must be greater than 0", label)
	case !fitsScale(item.Quantity.Decimal, quantityScale):
		return Validationf("Item %s: quantity must have at most %d decimal places", label, quantityScale)
	case !fitsScale(item.UnitPrice.Decimal, priceScale):
		return Validationf("Item %s: unit_price must have at most %d decimal places", label, priceScale)
	case item.Quantity.Decimal.GreaterThanOrEqual(maxQuantity):
		return Validationf("Item %s: quantity must be less than %s", label, maxQuantity)
	case item.UnitPrice.Decimal.GreaterThanOrEqual(maxAmount):
		return Validationf("Item %s: unit_price must be less than %s", label, maxAmount)
	case lineTotal(item).GreaterThanOrEqual(maxAmount):
		return Validationf("Item %s: line total must be less than %s", label, maxAmount)
	}
	return nil
}

// fitsScale reports whether d has no significant digits past places decimals.
// Trailing zeros such as 1.500 are accepted.
func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// lineTotal is quantity times unit price rounded to cents
func lineTotal(item ItemInput) decimal.Decimal {
	return item.Quantity.Decimal.Mul(item.UnitPrice.Decimal).Round(2)
}

// invoiceTotal sums the line totals of items
func invoiceTotal(items []ItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(lineTotal(item))
	}
	return total
}
