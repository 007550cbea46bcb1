package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoice-service/internal/model"
	"invoice-service/internal/store"
	"invoice-service/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func date(t *testing.T, s string) datatypes.Date {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return datatypes.Date(d)
}

func supplierID(t *testing.T, st *store.Store, code string) uint {
	t.Helper()
	s, err := st.FindActiveSupplierByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.ID
}

func insertInvoice(t *testing.T, st *store.Store, number, supplier, day string, total int64) *model.Invoice {
	t.Helper()
	amount := decimal.NewFromInt(total)
	inv := &model.Invoice{
		InvoiceNumber: number,
		SupplierID:    supplierID(t, st, supplier),
		InvoiceDate:   date(t, day),
		Subtotal:      amount,
		TotalAmount:   amount,
		Status:        model.InvoiceStatusPending,
		CreatedBy:     "system",
	}
	require.NoError(t, st.InsertInvoice(context.Background(), inv))
	require.NotZero(t, inv.ID)
	return inv
}

func TestFindActiveSupplierByCode(t *testing.T) {
	db := testdb.Seeded(t)
	st := store.New(db, nil)
	ctx := context.Background()

	s, err := st.FindActiveSupplierByCode(ctx, "S01")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Hitachi", s.SupplierName)

	require.NoError(t, db.Model(&model.Supplier{}).Where("supplier_code = ?", "G01").
		Update("status", model.StatusInactive).Error)
	s, err = st.FindActiveSupplierByCode(ctx, "G01")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = st.FindActiveSupplierByCode(ctx, "ZZZ")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestGetOrCreateProduct(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	ctx := context.Background()

	existing, created, err := st.GetOrCreateProduct(ctx, &model.Product{
		ProductCode: "S01",
		ProductName: "ignored",
		BasePrice:   decimal.NewFromInt(1),
		Status:      model.StatusActive,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "RICE COOKER CC3", existing.ProductName)
	assert.Equal(t, "1500000", existing.BasePrice.String())

	fresh := &model.Product{
		ProductCode: "N01",
		ProductName: "KETTLE",
		Category:    model.DefaultProductCategory,
		Unit:        model.DefaultProductUnit,
		BasePrice:   decimal.RequireFromString("250000.50"),
		Status:      model.StatusActive,
	}
	p, created, err := st.GetOrCreateProduct(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "250000.5", p.BasePrice.String())

	again, created, err := st.GetOrCreateProduct(ctx, &model.Product{ProductCode: "N01", ProductName: "KETTLE 2", Status: model.StatusActive})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "KETTLE", again.ProductName)
}

func TestInsertProductDuplicate(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	err := st.InsertProduct(context.Background(), &model.Product{ProductCode: "S01", ProductName: "dup", Status: model.StatusActive})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestInsertInvoiceDuplicateNumber(t *testing.T) {
	db := testdb.Seeded(t)
	st := store.New(db, nil)

	insertInvoice(t, st, "778", "S01", "2025-04-18", 1500000)

	dup := &model.Invoice{
		InvoiceNumber: "778",
		SupplierID:    supplierID(t, st, "G01"),
		InvoiceDate:   date(t, "2025-04-19"),
		TotalAmount:   decimal.NewFromInt(1),
		Status:        model.InvoiceStatusPending,
	}
	err := st.InsertInvoice(context.Background(), dup)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInvoiceItemsRoundTrip(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	ctx := context.Background()
	inv := insertInvoice(t, st, "900", "S01", "2025-05-01", 4500000)

	ac, err := st.FindProductByCode(ctx, "S02")
	require.NoError(t, err)
	rice, err := st.FindProductByCode(ctx, "S01")
	require.NoError(t, err)

	items := []model.InvoiceItem{
		{InvoiceID: inv.ID, ProductID: ac.ID, ProductCode: "S02", ProductName: "AC SPLIT 1 PK",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(3000000), LineTotal: decimal.NewFromInt(3000000)},
		{InvoiceID: inv.ID, ProductID: rice.ID, ProductCode: "S01", ProductName: "RICE COOKER CC3",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1500000), LineTotal: decimal.NewFromInt(1500000)},
	}
	require.NoError(t, st.InsertInvoiceItems(ctx, items))

	got, err := st.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, "S01", got.Supplier.SupplierCode)
	assert.Equal(t, "2025-05-01", model.FormatDate(got.InvoiceDate))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "S02", got.Items[0].ProductCode)
	assert.Equal(t, "S01", got.Items[1].ProductCode)

	require.NoError(t, st.DeleteInvoice(ctx, inv.ID))
	require.NoError(t, st.DeleteInvoice(ctx, inv.ID))
	_, err = st.GetInvoice(ctx, inv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertInvoiceItemsUnknownProduct(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	inv := insertInvoice(t, st, "901", "S01", "2025-05-01", 10)

	err := st.InsertInvoiceItems(context.Background(), []model.InvoiceItem{{
		InvoiceID: inv.ID, ProductID: 9999, ProductCode: "X", ProductName: "X",
		Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10),
	}})
	assert.ErrorIs(t, err, store.ErrReferenced)
}

func TestListInvoicesNewestFirst(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)

	insertInvoice(t, st, "A", "S01", "2025-04-18", 100)
	insertInvoice(t, st, "B", "G01", "2025-06-15", 200)
	insertInvoice(t, st, "C", "S01", "2025-06-15", 300)

	rows, err := st.ListInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "C", rows[0].InvoiceNumber)
	assert.Equal(t, "B", rows[1].InvoiceNumber)
	assert.Equal(t, "A", rows[2].InvoiceNumber)
	assert.Equal(t, "Global Nusantara", rows[1].SupplierName)
	assert.Equal(t, "G01", rows[1].SupplierCode)
	assert.Equal(t, "300", rows[0].TotalAmount.String())
}

func TestInvoiceTotals(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	ctx := context.Background()

	totals, err := st.InvoiceTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.InvoiceCount)
	assert.True(t, totals.TotalValue.IsZero())
	assert.True(t, totals.ItemQuantity.IsZero())

	inv := insertInvoice(t, st, "A", "S01", "2025-04-18", 1500000)
	insertInvoice(t, st, "B", "G01", "2025-06-15", 2000000)
	rice, err := st.FindProductByCode(ctx, "S01")
	require.NoError(t, err)
	require.NoError(t, st.InsertInvoiceItems(ctx, []model.InvoiceItem{{
		InvoiceID: inv.ID, ProductID: rice.ID, ProductCode: "S01", ProductName: "RICE COOKER CC3",
		Quantity: decimal.RequireFromString("2.5"), UnitPrice: decimal.NewFromInt(600000), LineTotal: decimal.NewFromInt(1500000),
	}}))

	totals, err = st.InvoiceTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.InvoiceCount)
	assert.Equal(t, "3500000", totals.TotalValue.String())
	assert.Equal(t, "2.5", totals.ItemQuantity.String())
}

func TestInvoiceAmountsSince(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)

	insertInvoice(t, st, "A", "S01", "2025-01-31", 100)
	insertInvoice(t, st, "B", "S01", "2025-02-01", 200)
	insertInvoice(t, st, "C", "S01", "2025-03-10", 300)

	rows, err := st.InvoiceAmountsSince(context.Background(), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-10", model.FormatDate(rows[0].InvoiceDate))
	assert.Equal(t, "200", rows[1].TotalAmount.String())
}

func TestDeleteSupplier(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	ctx := context.Background()

	insertInvoice(t, st, "A", "S01", "2025-04-18", 100)

	err := st.DeleteSupplier(ctx, supplierID(t, st, "S01"))
	assert.ErrorIs(t, err, store.ErrReferenced)

	require.NoError(t, st.DeleteSupplier(ctx, supplierID(t, st, "P01")))
	assert.ErrorIs(t, st.DeleteSupplier(ctx, 9999), store.ErrNotFound)
}

func TestInsertSupplierDuplicate(t *testing.T) {
	st := store.New(testdb.Seeded(t), nil)
	err := st.InsertSupplier(context.Background(), &model.Supplier{SupplierCode: "S01", SupplierName: "Again", Status: model.StatusActive})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestListActiveCatalog(t *testing.T) {
	db := testdb.Seeded(t)
	st := store.New(db, nil)
	ctx := context.Background()
	require.NoError(t, db.Model(&model.Product{}).Where("product_code = ?", "T01").
		Update("status", model.StatusInactive).Error)

	suppliers, err := st.ListActiveSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 4)
	assert.Equal(t, "Global Nusantara", suppliers[0].SupplierName)
	assert.Equal(t, "Toshiba Electronics", suppliers[3].SupplierName)

	products, err := st.ListActiveProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
	for _, p := range products {
		assert.NotEqual(t, "T01", p.ProductCode)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	db := testdb.Seeded(t)
	st := store.New(db, nil)
	boom := errors.New("boom")
	s01 := supplierID(t, st, "S01")

	err := st.Transaction(context.Background(), func(gw store.Gateway) error {
		inv := &model.Invoice{
			InvoiceNumber: "TX-1",
			SupplierID:    s01,
			InvoiceDate:   date(t, "2025-04-18"),
			TotalAmount:   decimal.NewFromInt(1),
			Status:        model.InvoiceStatusPending,
		}
		if err := gw.InsertInvoice(context.Background(), inv); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}
