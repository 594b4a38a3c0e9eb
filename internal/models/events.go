package models

import "time"

// Event types
const (
	EventTypeSaleCreated       = "SALE_CREATED"
	EventTypeStockAdjusted     = "STOCK_ADJUSTED"
	EventTypeLowStock          = "LOW_STOCK"
	EventTypeTypesConsolidated = "TYPES_CONSOLIDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleCreatedEvent published when a sale is recorded
type SaleCreatedEvent struct {
	BaseEvent
	SaleID      int64          `json:"sale_id"`
	BuyerID     *int64         `json:"buyer_id,omitempty"`
	TotalAmount int64          `json:"total_amount"`
	Items       []SaleItemData `json:"items"`
}

// StockAdjustedEvent published after a product's stock level changes,
// whether by sale (negative delta) or restock (positive delta).
type StockAdjustedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	Delta     int   `json:"delta"`
}

// LowStockEvent published by the stock alert worker when an adjusted
// product sits at or below its low-stock threshold.
type LowStockEvent struct {
	BaseEvent
	ProductID         int64 `json:"product_id"`
	NoOfItemsInStock  int   `json:"no_of_items_in_stock"`
	LowStockThreshold int   `json:"low_stock_threshold"`
}

// TypesConsolidatedEvent published after a consolidation run completes
type TypesConsolidatedEvent struct {
	BaseEvent
	GroupCount   int `json:"group_count"`
	UpdatedCount int `json:"updated_count"`
	FailedCount  int `json:"failed_count"`
}

// SaleItemData represents item data in events
type SaleItemData struct {
	ProductID    int64 `json:"product_id"`
	ItemsToSell  int   `json:"items_to_sell"`
	SellingPrice int64 `json:"selling_price"`
}
