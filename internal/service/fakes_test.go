package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shwedadar-service/internal/models"
)

// fakeStore is an in-memory stand-in for the sqlx store, shared by the
// service tests in this package.
type fakeStore struct {
	nextID    int64
	products  map[int64]*models.Product
	roles     map[string]*models.Role
	users     map[int64]*models.User
	sales     []*models.Sale
	saleItems []models.SaleItem

	failAdjustFor      map[int64]bool
	failUpdateTypesFor map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:           make(map[int64]*models.Product),
		roles:              make(map[string]*models.Role),
		users:              make(map[int64]*models.User),
		failAdjustFor:      make(map[int64]bool),
		failUpdateTypesFor: make(map[int64]bool),
	}
}

func (f *fakeStore) addProduct(p models.Product) *models.Product {
	f.nextID++
	p.ID = f.nextID
	p.LastUpdated = time.Now()
	f.products[p.ID] = &p
	return &p
}

func (f *fakeStore) CreateProduct(_ context.Context, product *models.Product) error {
	f.nextID++
	product.ID = f.nextID
	product.LastUpdated = time.Now()
	clone := *product
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, errNotFound)
	}
	clone := *p
	return &clone, nil
}

func (f *fakeStore) GetProducts(_ context.Context) ([]models.Product, error) {
	ids := make([]int64, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.products[id])
	}
	return out, nil
}

func (f *fakeStore) GetDistinctTypeTags(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var tags []string
	products, _ := f.GetProducts(context.Background())
	for _, p := range products {
		for _, tag := range p.Types {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (f *fakeStore) GetLowStockProducts(_ context.Context) ([]models.Product, error) {
	products, _ := f.GetProducts(context.Background())
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return fmt.Errorf("product %d: %w", product.ID, errNotFound)
	}
	clone := *product
	clone.LastUpdated = time.Now()
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeStore) UpdateProductTypes(_ context.Context, id int64, types []string) error {
	if f.failUpdateTypesFor[id] {
		return fmt.Errorf("simulated write failure for product %d", id)
	}
	p, ok := f.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, errNotFound)
	}
	p.Types = append([]string(nil), types...)
	p.LastUpdated = time.Now()
	return nil
}

func (f *fakeStore) AdjustStock(_ context.Context, id int64, delta int) error {
	if f.failAdjustFor[id] {
		return fmt.Errorf("simulated adjust failure for product %d", id)
	}
	p, ok := f.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, errNotFound)
	}
	if p.NoOfItemsInStock+delta < 0 {
		return fmt.Errorf("stock adjust by %d rejected for product %d", delta, id)
	}
	p.NoOfItemsInStock += delta
	p.LastUpdated = time.Now()
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, errNotFound)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) CreateSale(_ context.Context, sale *models.Sale) error {
	f.nextID++
	sale.ID = f.nextID
	sale.CreatedAt = time.Now()
	clone := *sale
	f.sales = append(f.sales, &clone)
	return nil
}

func (f *fakeStore) CreateSaleItem(_ context.Context, item *models.SaleItem) error {
	f.nextID++
	item.ID = f.nextID
	f.saleItems = append(f.saleItems, *item)
	return nil
}

func (f *fakeStore) GetSaleByID(_ context.Context, id int64) (*models.Sale, error) {
	for _, sale := range f.sales {
		if sale.ID == id {
			clone := *sale
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("sale %d: %w", id, errNotFound)
}

func (f *fakeStore) GetSaleItemsBySaleID(_ context.Context, saleID int64) ([]models.SaleItem, error) {
	out := make([]models.SaleItem, 0)
	for _, item := range f.saleItems {
		if item.SaleID == saleID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSales(_ context.Context) ([]models.Sale, error) {
	out := make([]models.Sale, 0, len(f.sales))
	for i := len(f.sales) - 1; i >= 0; i-- {
		out = append(out, *f.sales[i])
	}
	return out, nil
}

func (f *fakeStore) GetSalesByBuyerID(_ context.Context, buyerID int64) ([]models.Sale, error) {
	out := make([]models.Sale, 0)
	for _, sale := range f.sales {
		if sale.BuyerID != nil && *sale.BuyerID == buyerID {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateRole(_ context.Context, role *models.Role) error {
	f.nextID++
	role.ID = f.nextID
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	clone := *role
	f.roles[role.Name] = &clone
	return nil
}

func (f *fakeStore) GetRoleByName(_ context.Context, name string) (*models.Role, error) {
	role, ok := f.roles[name]
	if !ok {
		return nil, nil
	}
	clone := *role
	return &clone, nil
}

func (f *fakeStore) GetRoles(_ context.Context) ([]models.Role, error) {
	names := make([]string, 0, len(f.roles))
	for name := range f.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]models.Role, 0, len(names))
	for _, name := range names {
		out = append(out, *f.roles[name])
	}
	return out, nil
}

func (f *fakeStore) UpdateRolePermissions(_ context.Context, name string, permissions []string) error {
	role, ok := f.roles[name]
	if !ok {
		return fmt.Errorf("role %s: %w", name, errNotFound)
	}
	role.Permissions = append([]string(nil), permissions...)
	role.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteRole(_ context.Context, name string) error {
	if _, ok := f.roles[name]; !ok {
		return fmt.Errorf("role %s: %w", name, errNotFound)
	}
	delete(f.roles, name)
	return nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, errNotFound)
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUsers(_ context.Context) ([]models.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.users[id])
	}
	return out, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, errNotFound)
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	saleCreated   []*models.SaleCreatedEvent
	stockAdjusted []*models.StockAdjustedEvent
	consolidated  []*models.TypesConsolidatedEvent
}

func (f *fakePublisher) PublishSaleCreated(_ context.Context, event *models.SaleCreatedEvent) error {
	f.saleCreated = append(f.saleCreated, event)
	return nil
}

func (f *fakePublisher) PublishStockAdjusted(_ context.Context, event *models.StockAdjustedEvent) error {
	f.stockAdjusted = append(f.stockAdjusted, event)
	return nil
}

func (f *fakePublisher) PublishTypesConsolidated(_ context.Context, event *models.TypesConsolidatedEvent) error {
	f.consolidated = append(f.consolidated, event)
	return nil
}

// fakeLocker is held when held is true.
type fakeLocker struct {
	held bool
}

func (f *fakeLocker) AcquireLock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLocker) ReleaseLock(_ context.Context, _ string) error {
	f.held = false
	return nil
}

var errNotFound = fmt.Errorf("not found")
