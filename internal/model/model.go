package model

import "github.com/shopspring/decimal"

func init() {
	// Money and quantities travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Record statuses shared by suppliers and products
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{&Supplier{}, &Product{}, &Invoice{}, &InvoiceItem{}}
}
