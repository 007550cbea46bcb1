package service

import (
	"context"
	"testing"

	"invoice-service/internal/store"
	"invoice-service/internal/testdb"
	"invoice-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSuppliers(t *testing.T) {
	c := NewCatalog(store.New(testdb.Seeded(t), nil), nil)
	ctx := context.Background()

	s, err := c.CreateSupplier(ctx, SupplierInput{SupplierCode: " A01 ", SupplierName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "A01", s.SupplierCode)
	assert.Equal(t, "active", s.Status)

	_, err = c.CreateSupplier(ctx, SupplierInput{SupplierCode: "A01", SupplierName: "Acme again"})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = c.CreateSupplier(ctx, SupplierInput{SupplierCode: "A02"})
	assert.Equal(t, KindValidation, KindOf(err))

	list, err := c.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
	assert.Equal(t, "Acme", list[0].SupplierName)

	require.NoError(t, c.DeleteSupplier(ctx, s.ID))
	assert.Equal(t, KindNotFound, KindOf(c.DeleteSupplier(ctx, s.ID)))
}

func TestCatalogDeleteReferencedSupplier(t *testing.T) {
	w, st := sqliteWorkflow(t, config.WriteModeTransaction)
	c := NewCatalog(st, nil)
	ctx := context.Background()

	res, err := w.Create(ctx, validInput())
	require.NoError(t, err)

	err = c.DeleteSupplier(ctx, res.Invoice.SupplierID)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestCatalogProducts(t *testing.T) {
	c := NewCatalog(store.New(testdb.Seeded(t), nil), nil)
	ctx := context.Background()

	p, err := c.CreateProduct(ctx, ProductInput{ProductCode: "N01", ProductName: "KETTLE", BasePrice: dec("125000.456")})
	require.NoError(t, err)
	assert.Equal(t, "125000.46", p.BasePrice.String())
	assert.Equal(t, "Electronics", p.Category)
	assert.Equal(t, "pcs", p.Unit)

	_, err = c.CreateProduct(ctx, ProductInput{ProductCode: "N01", ProductName: "KETTLE", BasePrice: dec("1")})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = c.CreateProduct(ctx, ProductInput{ProductCode: "N02", ProductName: "KETTLE"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = c.CreateProduct(ctx, ProductInput{ProductCode: "N03", ProductName: "KETTLE", BasePrice: dec("-1")})
	assert.Equal(t, KindValidation, KindOf(err))

	list, err := c.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 7)
}
