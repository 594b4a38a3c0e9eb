package service

import (
	"context"
	"fmt"
	"time"

	"shwedadar-service/internal/models"
	"shwedadar-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleStore is the slice of the store the sale service uses.
type SaleStore interface {
	CreateSale(ctx context.Context, sale *models.Sale) error
	CreateSaleItem(ctx context.Context, item *models.SaleItem) error
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	GetSaleItemsBySaleID(ctx context.Context, saleID int64) ([]models.SaleItem, error)
	GetSales(ctx context.Context) ([]models.Sale, error)
	GetSalesByBuyerID(ctx context.Context, buyerID int64) ([]models.Sale, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SaleService records sales and restocks and reports commissions.
type SaleService struct {
	store     SaleStore
	publisher Publisher
	logger    *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(store SaleStore, publisher Publisher) *SaleService {
	return &SaleService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateSaleRequest represents a checkout to record.
type CreateSaleRequest struct {
	BuyerID *int64            `json:"buyer_id,omitempty"`
	Items   []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest is one product line of a checkout.
type SaleItemRequest struct {
	ProductID   int64 `json:"product_id" binding:"required"`
	ItemsToSell int   `json:"items_to_sell" binding:"required,min=1"`
}

// CreateSaleResponse reports the recorded sale and how many of the
// requested stock decrements were actually applied. Callers must treat
// StockUpdatesApplied < StockUpdatesRequested as an operator-facing
// warning: the failed decrements are not rolled back or retried.
type CreateSaleResponse struct {
	SaleID                int64 `json:"sale_id"`
	TotalAmount           int64 `json:"total_amount"`
	StockUpdatesRequested int   `json:"stock_updates_requested"`
	StockUpdatesApplied   int   `json:"stock_updates_applied"`
}

// CreateSale records a sale at current selling prices and decrements each
// product's stock. The per-product updates are independent, not one
// transaction: a failure mid-way leaves earlier decrements in place and is
// reported through the applied count.
func (s *SaleService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*CreateSaleResponse, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.CreateSale")
	defer span.End()

	if len(req.Items) == 0 {
		util.SalesFailedTotal.WithLabelValues("no_items").Inc()
		return nil, fmt.Errorf("%w: a sale needs at least one item", ErrValidation)
	}
	for _, item := range req.Items {
		if item.ItemsToSell <= 0 {
			util.SalesFailedTotal.WithLabelValues("invalid_quantity").Inc()
			return nil, fmt.Errorf("%w: items_to_sell must be positive for product %d", ErrValidation, item.ProductID)
		}
	}

	products := make(map[int64]*models.Product, len(req.Items))
	var totalAmount int64
	for _, item := range req.Items {
		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			util.SalesFailedTotal.WithLabelValues("unknown_product").Inc()
			return nil, err
		}
		products[item.ProductID] = product
		totalAmount += product.SellingPrice * int64(item.ItemsToSell)
	}

	sale := &models.Sale{
		BuyerID:     req.BuyerID,
		TotalAmount: totalAmount,
	}
	if err := s.store.CreateSale(ctx, sale); err != nil {
		util.SalesFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	itemData := make([]models.SaleItemData, 0, len(req.Items))
	for _, item := range req.Items {
		product := products[item.ProductID]
		saleItem := &models.SaleItem{
			SaleID:       sale.ID,
			ProductID:    item.ProductID,
			SellingPrice: product.SellingPrice,
			ItemsToSell:  item.ItemsToSell,
		}
		if err := s.store.CreateSaleItem(ctx, saleItem); err != nil {
			return nil, fmt.Errorf("failed to create sale item: %w", err)
		}
		itemData = append(itemData, models.SaleItemData{
			ProductID:    item.ProductID,
			ItemsToSell:  item.ItemsToSell,
			SellingPrice: product.SellingPrice,
		})
	}

	util.SalesCreatedTotal.Inc()
	s.logger.Info("Sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("total_amount", totalAmount))

	if err := s.publisher.PublishSaleCreated(ctx, &models.SaleCreatedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeSaleCreated),
		SaleID:      sale.ID,
		BuyerID:     sale.BuyerID,
		TotalAmount: totalAmount,
		Items:       itemData,
	}); err != nil {
		s.logger.Error("Failed to publish SaleCreated event", zap.Error(err))
	}

	applied := 0
	for _, item := range req.Items {
		if err := s.store.AdjustStock(ctx, item.ProductID, -item.ItemsToSell); err != nil {
			util.StockAdjustmentsTotal.WithLabelValues("failed").Inc()
			s.logger.Warn("Stock decrement failed",
				zap.Int64("sale_id", sale.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Int("items_to_sell", item.ItemsToSell),
				zap.Error(err))
			continue
		}
		applied++
		util.StockAdjustmentsTotal.WithLabelValues("applied").Inc()
		s.publishStockAdjusted(ctx, item.ProductID, -item.ItemsToSell)
	}

	if applied < len(req.Items) {
		util.PartialStockWritesTotal.Inc()
		s.logger.Warn("Sale left stock partially updated",
			zap.Int64("sale_id", sale.ID),
			zap.Int("requested", len(req.Items)),
			zap.Int("applied", applied))
	}

	return &CreateSaleResponse{
		SaleID:                sale.ID,
		TotalAmount:           totalAmount,
		StockUpdatesRequested: len(req.Items),
		StockUpdatesApplied:   applied,
	}, nil
}

// Restock increases a product's stock level.
func (s *SaleService) Restock(ctx context.Context, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "SaleService.Restock")
	defer span.End()

	if quantity <= 0 {
		return fmt.Errorf("%w: restock quantity must be positive", ErrValidation)
	}

	if err := s.store.AdjustStock(ctx, productID, quantity); err != nil {
		util.StockAdjustmentsTotal.WithLabelValues("failed").Inc()
		return err
	}

	util.StockAdjustmentsTotal.WithLabelValues("applied").Inc()
	s.logger.Info("Product restocked",
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity))
	s.publishStockAdjusted(ctx, productID, quantity)
	return nil
}

// GetSale retrieves a sale and its product lines.
func (s *SaleService) GetSale(ctx context.Context, id int64) (*models.Sale, []models.SaleItem, error) {
	sale, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetSaleItemsBySaleID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return sale, items, nil
}

// ListSales retrieves sales newest first.
func (s *SaleService) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.store.GetSales(ctx)
}

// CommissionReport summarizes one staff account's attributed sales.
type CommissionReport struct {
	UserID         int64   `json:"user_id"`
	Username       string  `json:"username"`
	CommissionRate float64 `json:"commission_rate"`
	SaleCount      int     `json:"sale_count"`
	TotalSales     int64   `json:"total_sales"`
	Commission     int64   `json:"commission"`
}

// Commission computes a staff account's commission over all sales
// attributed to it. Accounts without a commission rate report zero.
func (s *SaleService) Commission(ctx context.Context, userID int64) (*CommissionReport, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sales, err := s.store.GetSalesByBuyerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, sale := range sales {
		total += sale.TotalAmount
	}

	rate := 0.0
	if user.CommissionRate != nil {
		rate = *user.CommissionRate
	}

	return &CommissionReport{
		UserID:         user.ID,
		Username:       user.Username,
		CommissionRate: rate,
		SaleCount:      len(sales),
		TotalSales:     total,
		Commission:     int64(float64(total) * rate / 100.0),
	}, nil
}

func (s *SaleService) publishStockAdjusted(ctx context.Context, productID int64, delta int) {
	if err := s.publisher.PublishStockAdjusted(ctx, &models.StockAdjustedEvent{
		BaseEvent: newBaseEvent(models.EventTypeStockAdjusted),
		ProductID: productID,
		Delta:     delta,
	}); err != nil {
		s.logger.Error("Failed to publish StockAdjusted event",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
