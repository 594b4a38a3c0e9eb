package service

import (
	"context"
	"testing"

	"shwedadar-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaleDecrementsStock(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	p := store.addProduct(models.Product{Types: []string{"brake pad"}, NoOfItemsInStock: 5, SellingPrice: 1000})

	svc := NewSaleService(store, pub)
	resp, err := svc.CreateSale(context.Background(), &CreateSaleRequest{
		Items: []SaleItemRequest{{ProductID: p.ID, ItemsToSell: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3000), resp.TotalAmount)
	assert.Equal(t, 1, resp.StockUpdatesRequested)
	assert.Equal(t, 1, resp.StockUpdatesApplied)

	got, err := store.GetProductByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NoOfItemsInStock)

	require.Len(t, pub.saleCreated, 1)
	assert.Equal(t, models.EventTypeSaleCreated, pub.saleCreated[0].EventType)
	require.Len(t, pub.stockAdjusted, 1)
	assert.Equal(t, -3, pub.stockAdjusted[0].Delta)
}

func TestCreateSaleUsesPriceAtTimeOfSale(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	p := store.addProduct(models.Product{Types: []string{"chain"}, NoOfItemsInStock: 10, SellingPrice: 700})

	svc := NewSaleService(store, pub)
	resp, err := svc.CreateSale(context.Background(), &CreateSaleRequest{
		Items: []SaleItemRequest{{ProductID: p.ID, ItemsToSell: 2}},
	})
	require.NoError(t, err)

	items, err := store.GetSaleItemsBySaleID(context.Background(), resp.SaleID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(700), items[0].SellingPrice)
	assert.Equal(t, 2, items[0].ItemsToSell)
}

func TestCreateSalePartialStockWrite(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	ok := store.addProduct(models.Product{Types: []string{"chain"}, NoOfItemsInStock: 5, SellingPrice: 100})
	bad := store.addProduct(models.Product{Types: []string{"sprocket"}, NoOfItemsInStock: 5, SellingPrice: 100})
	store.failAdjustFor[bad.ID] = true

	svc := NewSaleService(store, pub)
	resp, err := svc.CreateSale(context.Background(), &CreateSaleRequest{
		Items: []SaleItemRequest{
			{ProductID: ok.ID, ItemsToSell: 1},
			{ProductID: bad.ID, ItemsToSell: 1},
		},
	})

	// partial failure is a warning carried in the counts, not an error
	require.NoError(t, err)
	assert.Equal(t, 2, resp.StockUpdatesRequested)
	assert.Equal(t, 1, resp.StockUpdatesApplied)

	got, _ := store.GetProductByID(context.Background(), ok.ID)
	assert.Equal(t, 4, got.NoOfItemsInStock)
	got, _ = store.GetProductByID(context.Background(), bad.ID)
	assert.Equal(t, 5, got.NoOfItemsInStock)
}

func TestCreateSaleValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewSaleService(store, &fakePublisher{})

	_, err := svc.CreateSale(context.Background(), &CreateSaleRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	p := store.addProduct(models.Product{Types: []string{"chain"}, NoOfItemsInStock: 5})
	_, err = svc.CreateSale(context.Background(), &CreateSaleRequest{
		Items: []SaleItemRequest{{ProductID: p.ID, ItemsToSell: 0}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateSale(context.Background(), &CreateSaleRequest{
		Items: []SaleItemRequest{{ProductID: 999, ItemsToSell: 1}},
	})
	assert.Error(t, err)
}

func TestRestock(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	p := store.addProduct(models.Product{Types: []string{"chain"}, NoOfItemsInStock: 2})

	svc := NewSaleService(store, pub)
	require.NoError(t, svc.Restock(context.Background(), p.ID, 3))

	got, _ := store.GetProductByID(context.Background(), p.ID)
	assert.Equal(t, 5, got.NoOfItemsInStock)
	require.Len(t, pub.stockAdjusted, 1)
	assert.Equal(t, 3, pub.stockAdjusted[0].Delta)

	assert.ErrorIs(t, svc.Restock(context.Background(), p.ID, 0), ErrValidation)
	assert.ErrorIs(t, svc.Restock(context.Background(), p.ID, -1), ErrValidation)
}

func TestCommissionReport(t *testing.T) {
	store := newFakeStore()
	rate := 5.0
	user := &models.User{Username: "seller", CommissionRate: &rate, IsActive: true}
	require.NoError(t, store.CreateUser(context.Background(), user))

	for _, amount := range []int64{10000, 30000} {
		sale := &models.Sale{BuyerID: &user.ID, TotalAmount: amount}
		require.NoError(t, store.CreateSale(context.Background(), sale))
	}
	// unattributed sale is not counted
	require.NoError(t, store.CreateSale(context.Background(), &models.Sale{TotalAmount: 99999}))

	svc := NewSaleService(store, &fakePublisher{})
	report, err := svc.Commission(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, report.SaleCount)
	assert.Equal(t, int64(40000), report.TotalSales)
	assert.Equal(t, int64(2000), report.Commission)
}

func TestCommissionReportWithoutRate(t *testing.T) {
	store := newFakeStore()
	user := &models.User{Username: "clerk", IsActive: true}
	require.NoError(t, store.CreateUser(context.Background(), user))

	sale := &models.Sale{BuyerID: &user.ID, TotalAmount: 5000}
	require.NoError(t, store.CreateSale(context.Background(), sale))

	svc := NewSaleService(store, &fakePublisher{})
	report, err := svc.Commission(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), report.TotalSales)
	assert.Equal(t, int64(0), report.Commission)
}
