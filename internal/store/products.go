package store

import (
	"context"
	"database/sql"
	"fmt"

	"shwedadar-service/internal/models"

	"github.com/lib/pq"
)

// CreateProduct inserts a product and fills in its id and last_updated.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (types, description, brand, location, source,
			no_of_items_in_stock, selling_price, buying_price, low_stock_threshold, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, last_updated`

	return s.db.QueryRowxContext(ctx, query,
		product.Types, product.Description, product.Brand, product.Location, product.Source,
		product.NoOfItemsInStock, product.SellingPrice, product.BuyingPrice, product.LowStockThreshold,
	).Scan(&product.ID, &product.LastUpdated)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves the full catalog
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetDistinctTypeTags retrieves every distinct tag used across the catalog.
func (s *Store) GetDistinctTypeTags(ctx context.Context) ([]string, error) {
	var tags []string
	err := s.db.SelectContext(ctx, &tags,
		"SELECT DISTINCT unnest(types) FROM products ORDER BY 1")
	return tags, err
}

// GetLowStockProducts retrieves products at or below their threshold.
func (s *Store) GetLowStockProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE no_of_items_in_stock <= low_stock_threshold ORDER BY id")
	return products, err
}

// UpdateProduct rewrites a product's attributes and bumps last_updated.
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET types = $1, description = $2, brand = $3, location = $4,
			source = $5, selling_price = $6, buying_price = $7, low_stock_threshold = $8,
			last_updated = NOW()
		WHERE id = $9`,
		product.Types, product.Description, product.Brand, product.Location,
		product.Source, product.SellingPrice, product.BuyingPrice, product.LowStockThreshold,
		product.ID)
	if err != nil {
		return err
	}
	return requireRow(result, "product", product.ID)
}

// UpdateProductTypes overwrites only the tag array, used by consolidation.
func (s *Store) UpdateProductTypes(ctx context.Context, id int64, types []string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE products SET types = $1, last_updated = NOW() WHERE id = $2",
		pq.StringArray(types), id)
	if err != nil {
		return err
	}
	return requireRow(result, "product", id)
}

// AdjustStock moves a product's stock level by delta (negative for sales,
// positive for restocks). The guard keeps stock from going negative; a
// rejected decrement returns ErrConflict and a missing id returns
// ErrNotFound, each without touching the row.
func (s *Store) AdjustStock(ctx context.Context, id int64, delta int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET no_of_items_in_stock = no_of_items_in_stock + $1, last_updated = NOW()
		WHERE id = $2 AND no_of_items_in_stock + $1 >= 0`,
		delta, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := s.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("stock adjust by %d rejected for product %d: %w", delta, id, ErrConflict)
	}
	return nil
}

// DeleteProduct removes a product from the catalog.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result, "product", id)
}

func requireRow(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
