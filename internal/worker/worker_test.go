package worker

import (
	"context"
	"fmt"
	"testing"

	"shwedadar-service/internal/models"
	"shwedadar-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type fakeProductSource struct {
	products map[int64]*models.Product
}

func (f *fakeProductSource) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, store.ErrNotFound)
	}
	return p, nil
}

type fakeAlertPublisher struct {
	alerts []*models.LowStockEvent
}

func (f *fakeAlertPublisher) PublishLowStock(_ context.Context, event *models.LowStockEvent) error {
	f.alerts = append(f.alerts, event)
	return nil
}

func TestHandleStockAdjustedRaisesLowStockAlert(t *testing.T) {
	source := &fakeProductSource{products: map[int64]*models.Product{
		1: {ID: 1, NoOfItemsInStock: 2, LowStockThreshold: 5},
	}}
	pub := &fakeAlertPublisher{}
	w := &StockAlertWorker{products: source, publisher: pub, logger: testLogger()}

	err := w.handleStockAdjusted(context.Background(), &models.StockAdjustedEvent{ProductID: 1, Delta: -3})

	require.NoError(t, err)
	require.Len(t, pub.alerts, 1)
	assert.Equal(t, int64(1), pub.alerts[0].ProductID)
	assert.Equal(t, 2, pub.alerts[0].NoOfItemsInStock)
	assert.Equal(t, models.EventTypeLowStock, pub.alerts[0].EventType)
}

func TestHandleStockAdjustedBoundaryInclusive(t *testing.T) {
	source := &fakeProductSource{products: map[int64]*models.Product{
		1: {ID: 1, NoOfItemsInStock: 5, LowStockThreshold: 5},
		2: {ID: 2, NoOfItemsInStock: 6, LowStockThreshold: 5},
	}}
	pub := &fakeAlertPublisher{}
	w := &StockAlertWorker{products: source, publisher: pub, logger: testLogger()}

	require.NoError(t, w.handleStockAdjusted(context.Background(), &models.StockAdjustedEvent{ProductID: 1}))
	require.NoError(t, w.handleStockAdjusted(context.Background(), &models.StockAdjustedEvent{ProductID: 2}))

	require.Len(t, pub.alerts, 1)
	assert.Equal(t, int64(1), pub.alerts[0].ProductID)
}

func TestHandleStockAdjustedIgnoresDeletedProduct(t *testing.T) {
	source := &fakeProductSource{products: map[int64]*models.Product{}}
	pub := &fakeAlertPublisher{}
	w := &StockAlertWorker{products: source, publisher: pub, logger: testLogger()}

	err := w.handleStockAdjusted(context.Background(), &models.StockAdjustedEvent{ProductID: 42})

	assert.NoError(t, err)
	assert.Empty(t, pub.alerts)
}
