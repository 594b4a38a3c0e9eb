package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shwedadar-service/internal/models"
	"shwedadar-service/internal/typeset"
	"shwedadar-service/internal/util"

	"go.uber.org/zap"
)

// CatalogStore is the slice of the store the catalog service uses.
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetDistinctTypeTags(ctx context.Context) ([]string, error)
	GetLowStockProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// CatalogService handles product catalog operations
type CatalogService struct {
	store  CatalogStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ProductRequest carries product attributes for create and update.
type ProductRequest struct {
	Types             []string `json:"types" binding:"required,min=1"`
	Description       string   `json:"description"`
	Brand             string   `json:"brand"`
	Location          string   `json:"location"`
	Source            string   `json:"source"`
	NoOfItemsInStock  int      `json:"no_of_items_in_stock" binding:"min=0"`
	SellingPrice      int64    `json:"selling_price" binding:"min=0"`
	BuyingPrice       int64    `json:"buying_price" binding:"min=0"`
	LowStockThreshold int      `json:"low_stock_threshold" binding:"min=0"`
}

func (r *ProductRequest) validate() ([]string, error) {
	tags := make([]string, 0, len(r.Types))
	for _, tag := range r.Types {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	tags = typeset.UniqueTags(tags)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: at least one non-empty type tag is required", ErrValidation)
	}
	if r.NoOfItemsInStock < 0 || r.SellingPrice < 0 || r.BuyingPrice < 0 || r.LowStockThreshold < 0 {
		return nil, fmt.Errorf("%w: stock, prices and threshold must be non-negative", ErrValidation)
	}
	return tags, nil
}

// CreateProduct validates and persists a new catalog entry.
func (s *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	tags, err := req.validate()
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Types:             tags,
		Description:       req.Description,
		Brand:             req.Brand,
		Location:          req.Location,
		Source:            req.Source,
		NoOfItemsInStock:  req.NoOfItemsInStock,
		SellingPrice:      req.SellingPrice,
		BuyingPrice:       req.BuyingPrice,
		LowStockThreshold: req.LowStockThreshold,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Strings("types", product.Types))
	return product, nil
}

// GetProduct retrieves one product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// ListProducts retrieves the full catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetProducts(ctx)
}

// UpdateProduct validates and rewrites an existing product's attributes.
// Stock is adjusted through the sale/restock paths, not here.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	tags, err := req.validate()
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Types = tags
	product.Description = req.Description
	product.Brand = req.Brand
	product.Location = req.Location
	product.Source = req.Source
	product.SellingPrice = req.SellingPrice
	product.BuyingPrice = req.BuyingPrice
	product.LowStockThreshold = req.LowStockThreshold

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

// SuggestTypes returns existing tags similar to the free-text query, best
// match first, for the "pick an existing type" flow on product creation.
func (s *CatalogService) SuggestTypes(ctx context.Context, query string) ([]string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SuggestTypes")
	defer span.End()

	start := time.Now()
	defer func() {
		util.TypeSuggestionLatency.Observe(time.Since(start).Seconds())
	}()

	tags, err := s.store.GetDistinctTypeTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load type universe: %w", err)
	}

	return typeset.FindMatchingTypes(query, tags), nil
}

// SuggestTypeGroups returns the distinct tag bundles of products matching
// the query, for the "pick an existing tag bundle" flow.
func (s *CatalogService) SuggestTypeGroups(ctx context.Context, query string) ([][]string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SuggestTypeGroups")
	defer span.End()

	start := time.Now()
	defer func() {
		util.TypeSuggestionLatency.Observe(time.Since(start).Seconds())
	}()

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	arrays := make([][]string, len(products))
	for i := range products {
		arrays[i] = products[i].Types
	}

	return typeset.FindMatchingTypeGroups(query, arrays), nil
}

// LowStockReport lists products at or below their low-stock threshold.
func (s *CatalogService) LowStockReport(ctx context.Context) ([]models.Product, error) {
	return s.store.GetLowStockProducts(ctx)
}
