package handler

import (
	"net/http"
	"strconv"
	"strings"

	"invoice-service/internal/service"
	"invoice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceItemRequest is one submitted line. The short names (code, name,
// qty, price) are the ones sent by the invoice entry form.
type InvoiceItemRequest struct {
	ProductCode string              `json:"product_code"`
	Code        string              `json:"code"`
	ProductName string              `json:"product_name"`
	Name        string              `json:"name"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	Qty         decimal.NullDecimal `json:"qty"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	Price       decimal.NullDecimal `json:"price"`
	Notes       string              `json:"notes"`
}

// InvoiceRequest defines the structure for invoice creation requests. Form
// submissions use invoiceNumber, supplierCode, supplierName and date.
type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number"`
	InvoiceNo     string               `json:"invoiceNumber"`
	SupplierCode  string               `json:"supplier_code"`
	Supplier      string               `json:"supplierCode"`
	SupplierName  string               `json:"supplierName"`
	InvoiceDate   string               `json:"invoice_date"`
	Date          string               `json:"date"`
	DueDate       string               `json:"due_date"`
	Items         []InvoiceItemRequest `json:"items"`
	Notes         string               `json:"notes"`
	CreatedBy     string               `json:"created_by"`
}

// Input normalizes the request into the workflow input
func (r InvoiceRequest) Input() service.CreateInvoiceInput {
	in := service.CreateInvoiceInput{
		InvoiceNumber: firstOf(r.InvoiceNumber, r.InvoiceNo),
		SupplierCode:  firstOf(r.SupplierCode, r.Supplier),
		InvoiceDate:   firstOf(r.InvoiceDate, r.Date),
		DueDate:       r.DueDate,
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
		Items:         make([]service.ItemInput, 0, len(r.Items)),
	}
	if in.Notes == "" && strings.TrimSpace(r.SupplierName) != "" {
		in.Notes = "Invoice for " + strings.TrimSpace(r.SupplierName)
	}
	for _, item := range r.Items {
		in.Items = append(in.Items, service.ItemInput{
			ProductCode: firstOf(item.ProductCode, item.Code),
			ProductName: firstOf(item.ProductName, item.Name),
			Quantity:    firstDecimal(item.Quantity, item.Qty),
			UnitPrice:   firstDecimal(item.UnitPrice, item.Price),
			Notes:       item.Notes,
		})
	}
	return in
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstDecimal(values ...decimal.NullDecimal) decimal.NullDecimal {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return decimal.NullDecimal{}
}

// CreateInvoice records a purchase invoice with its items
func (h *Handler) CreateInvoice(c echo.Context) error {
	log := logger.FromContext(c)

	var req InvoiceRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return h.fail(c, service.Validationf("Invalid request data"))
	}

	in := req.Input()
	log.Info("Invoice creation request",
		zap.String("invoice_number", in.InvoiceNumber),
		zap.String("supplier_code", in.SupplierCode),
		zap.Int("items", len(in.Items)))

	res, err := h.workflow.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    res,
		"message": "Invoice created successfully",
	})
}

// ListInvoices returns every invoice, newest first
func (h *Handler) ListInvoices(c echo.Context) error {
	invoices, err := h.reader.ListInvoices(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    invoices,
		"count":   len(invoices),
	})
}

// GetInvoice returns an invoice with its supplier details and items
func (h *Handler) GetInvoice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, service.Validationf("Invalid invoice ID"))
	}

	detail, err := h.reader.GetInvoiceDetail(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    detail,
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
