package models

import (
	"time"

	"github.com/lib/pq"
)

// Product is a catalog entry for a motorcycle part.
//
// Types is an ordered list of free-text tags. Duplicates within one product
// are removed during type consolidation; insertion order is preserved for
// display.
type Product struct {
	ID                int64          `db:"id" json:"id"`
	Types             pq.StringArray `db:"types" json:"types"`
	Description       string         `db:"description" json:"description"`
	Brand             string         `db:"brand" json:"brand"`
	Location          string         `db:"location" json:"location"`
	Source            string         `db:"source" json:"source"`
	NoOfItemsInStock  int            `db:"no_of_items_in_stock" json:"no_of_items_in_stock"`
	SellingPrice      int64          `db:"selling_price" json:"selling_price"`
	BuyingPrice       int64          `db:"buying_price" json:"buying_price"`
	LowStockThreshold int            `db:"low_stock_threshold" json:"low_stock_threshold"`
	LastUpdated       time.Time      `db:"last_updated" json:"last_updated"`
}

// IsLowStock reports whether the product is at or below its low-stock
// threshold (boundary inclusive).
func (p *Product) IsLowStock() bool {
	return p.NoOfItemsInStock <= p.LowStockThreshold
}

// Role maps a role name to its permission strings ("MODULE:ACTION").
type Role struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Permissions pq.StringArray `db:"permissions" json:"permissions"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// User is a shop staff account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	RoleName       string    `db:"role_name" json:"role_name"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Address        string    `db:"address" json:"address"`
	CommissionRate *float64  `db:"commission_rate" json:"commission_rate,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Sale records one checkout. BuyerID is the staff account the sale is
// attributed to for commission purposes; walk-in sales leave it null.
type Sale struct {
	ID          int64     `db:"id" json:"id"`
	BuyerID     *int64    `db:"buyer_id" json:"buyer_id,omitempty"`
	TotalAmount int64     `db:"total_amount" json:"total_amount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// SaleItem is one product line of a sale. SellingPrice is the price at the
// time of sale, not the product's current price.
type SaleItem struct {
	ID           int64 `db:"id" json:"id"`
	SaleID       int64 `db:"sale_id" json:"sale_id"`
	ProductID    int64 `db:"product_id" json:"product_id"`
	SellingPrice int64 `db:"selling_price" json:"selling_price"`
	ItemsToSell  int   `db:"items_to_sell" json:"items_to_sell"`
}
