package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"shwedadar-service/internal/broker"
	"shwedadar-service/internal/models"
	"shwedadar-service/internal/store"
	"shwedadar-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductSource looks up the adjusted product for threshold checks.
type ProductSource interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// AlertPublisher publishes low-stock alerts.
type AlertPublisher interface {
	PublishLowStock(ctx context.Context, event *models.LowStockEvent) error
}

// StockAlertWorker consumes StockAdjusted events and raises LowStock
// alerts for products at or below their threshold. This is the operator
// surface for spotting partially-applied sale decrements too: every
// applied adjustment flows through here.
type StockAlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	products     ProductSource
	publisher    AlertPublisher
	logger       *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(
	consumer *broker.Consumer,
	products ProductSource,
	publisher AlertPublisher,
) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer:  consumer,
		products:  products,
		publisher: publisher,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnStockAdjusted(w.handleStockAdjusted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	log.Println("Starting stock alert worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	log.Println("Stopping stock alert worker...")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	product, err := w.products.GetProductByID(ctx, event.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// product deleted between adjustment and alert check
			return nil
		}
		return err
	}

	if !product.IsLowStock() {
		return nil
	}

	util.LowStockAlertsTotal.Inc()
	w.logger.Warn("Product is low on stock",
		zap.Int64("product_id", product.ID),
		zap.Int("no_of_items_in_stock", product.NoOfItemsInStock),
		zap.Int("low_stock_threshold", product.LowStockThreshold))

	return w.publisher.PublishLowStock(ctx, &models.LowStockEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLowStock,
			Timestamp: time.Now(),
		},
		ProductID:         product.ID,
		NoOfItemsInStock:  product.NoOfItemsInStock,
		LowStockThreshold: product.LowStockThreshold,
	})
}
