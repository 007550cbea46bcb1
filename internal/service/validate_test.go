package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func item(code, name, qty, price string) ItemInput {
	it := ItemInput{ProductCode: code, ProductName: name}
	if qty != "" {
		it.Quantity = dec(qty)
	}
	if price != "" {
		it.UnitPrice = dec(price)
	}
	return it
}

func validInput() CreateInvoiceInput {
	return CreateInvoiceInput{
		InvoiceNumber: "778",
		SupplierCode:  "S01",
		InvoiceDate:   "2025-04-18",
		Items:         []ItemInput{item("S01", "RICE COOKER CC3", "1", "1500000")},
	}
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	in := validInput()
	in.InvoiceNumber = "  778 "
	in.DueDate = "2025-05-18"

	v, err := validate(in)
	require.NoError(t, err)
	assert.Equal(t, "778", v.in.InvoiceNumber)
	assert.Equal(t, "2025-04-18", v.invoiceDate.Format("2006-01-02"))
	require.NotNil(t, v.dueDate)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInvoiceInput)
		want   string
	}{
		{"empty items", func(in *CreateInvoiceInput) { in.Items = nil }, "Missing required fields: items"},
		{"missing number and supplier", func(in *CreateInvoiceInput) {
			in.InvoiceNumber = ""
			in.SupplierCode = " "
		}, "Missing required fields: invoice_number, supplier_code"},
		{"bad date", func(in *CreateInvoiceInput) { in.InvoiceDate = "18/04/2025" }, "invoice_date must be a date in YYYY-MM-DD format"},
		{"due before invoice", func(in *CreateInvoiceInput) { in.DueDate = "2025-04-01" }, "due_date must not be before invoice_date"},
		{"long number", func(in *CreateInvoiceInput) { in.InvoiceNumber = strings.Repeat("9", 51) }, "invoice_number must be at most 50 characters"},
		{"zero quantity", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("S01", "RICE COOKER CC3", "0", "10")}
		}, "Item RICE COOKER CC3: quantity must be greater than 0"},
		{"missing price", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("S01", "RICE COOKER CC3", "1", "")}
		}, "Item RICE COOKER CC3: unit_price is required"},
		{"negative price", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("S01", "RICE COOKER CC3", "1", "-5")}
		}, "Item RICE COOKER CC3: unit_price must be greater than 0"},
		{"missing name uses position", func(in *CreateInvoiceInput) {
			in.Items = append(in.Items, item("S02", "", "1", "10"))
		}, "Item #2: product_name is required"},
		{"missing code", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("", "KETTLE", "1", "10")}
		}, "Item KETTLE: product_code is required"},
		{"sub-cent price", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("N01", "KETTLE", "3", "0.005")}
		}, "Item KETTLE: unit_price must have at most 2 decimal places"},
		{"quantity past three decimals", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("N01", "KETTLE", "1.0005", "10")}
		}, "Item KETTLE: quantity must have at most 3 decimal places"},
		{"quantity too large", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("N01", "KETTLE", "1000000000", "1")}
		}, "Item KETTLE: quantity must be less than 1000000000"},
		{"price too large", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("N01", "KETTLE", "1", "10000000000000")}
		}, "Item KETTLE: unit_price must be less than 10000000000000"},
		{"line total too large", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{item("N01", "KETTLE", "10", "1000000000000")}
		}, "Item KETTLE: line total must be less than 10000000000000"},
		{"invoice total too large", func(in *CreateInvoiceInput) {
			in.Items = []ItemInput{
				item("N01", "KETTLE", "1", "9000000000000"),
				item("N02", "TOASTER", "1", "1000000000000"),
			}
		}, "Invoice total must be less than 10000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := validate(in)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestValidateStopsAtFirstBadItem(t *testing.T) {
	in := validInput()
	in.Items = []ItemInput{
		item("A", "FIRST", "1", "1"),
		item("B", "SECOND", "0", "1"),
		item("C", "THIRD", "1", "0"),
	}
	_, err := validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECOND")
	assert.NotContains(t, err.Error(), "THIRD")
}

func TestValidateAcceptsTrailingZeros(t *testing.T) {
	in := validInput()
	in.Items = []ItemInput{item("N01", "KETTLE", "1.500", "125000.10")}
	_, err := validate(in)
	require.NoError(t, err)
}

func TestInvoiceTotalIsExact(t *testing.T) {
	items := []ItemInput{
		item("A", "A", "3", "0.10"),
		item("B", "B", "1.5", "1500000"),
		item("C", "C", "0.333", "3"),
	}
	// 0.30 + 2250000.00 + 1.00 (0.999 rounded)
	assert.Equal(t, "2250001.3", invoiceTotal(items).String())
	assert.Equal(t, "0.3", lineTotal(items[0]).String())
}
