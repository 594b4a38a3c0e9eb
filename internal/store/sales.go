package store

import (
	"context"
	"database/sql"
	"fmt"

	"shwedadar-service/internal/models"
)

// CreateSale inserts a sale header and fills in its id and created_at.
func (s *Store) CreateSale(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (buyer_id, total_amount)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query, sale.BuyerID, sale.TotalAmount).
		Scan(&sale.ID, &sale.CreatedAt)
}

// CreateSaleItem inserts one product line of a sale.
func (s *Store) CreateSaleItem(ctx context.Context, item *models.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, selling_price, items_to_sell)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.SaleID, item.ProductID, item.SellingPrice, item.ItemsToSell)
}

// GetSaleByID retrieves a sale by ID
func (s *Store) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleItemsBySaleID retrieves all product lines of a sale.
func (s *Store) GetSaleItemsBySaleID(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id", saleID)
	return items, err
}

// GetSales retrieves sales newest first.
func (s *Store) GetSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales, "SELECT * FROM sales ORDER BY created_at DESC")
	return sales, err
}

// GetSalesByBuyerID retrieves sales attributed to one staff account,
// newest first. Feeds the commission report.
func (s *Store) GetSalesByBuyerID(ctx context.Context, buyerID int64) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales,
		"SELECT * FROM sales WHERE buyer_id = $1 ORDER BY created_at DESC", buyerID)
	return sales, err
}
