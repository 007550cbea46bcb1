package handler

import (
	"context"

	"invoice-service/internal/service"
)

// Maintenance covers the database chores exposed over HTTP
type Maintenance interface {
	Ping(ctx context.Context) error
	Setup(ctx context.Context) (missing []string, err error)
}

// Handler serves the invoice API
type Handler struct {
	serviceName   string
	workflow      *service.InvoiceWorkflow
	reader        *service.Reader
	catalog       *service.Catalog
	maintenance   Maintenance
	exposeDetails bool
}

// Options configures a Handler
type Options struct {
	ServiceName   string
	Workflow      *service.InvoiceWorkflow
	Reader        *service.Reader
	Catalog       *service.Catalog
	Maintenance   Maintenance
	ExposeDetails bool
}

// New builds a Handler from opts
func New(opts Options) *Handler {
	return &Handler{
		serviceName:   opts.ServiceName,
		workflow:      opts.Workflow,
		reader:        opts.Reader,
		catalog:       opts.Catalog,
		maintenance:   opts.Maintenance,
		exposeDetails: opts.ExposeDetails,
	}
}
