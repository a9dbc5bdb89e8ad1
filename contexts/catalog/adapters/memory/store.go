package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "eshop/contexts/catalog/domain/errors"
	"eshop/contexts/catalog/ports"
)

type Store struct {
	mu         sync.RWMutex
	categories map[string]ports.Category
	products   map[string]ports.Product
	sequence   uint64
}

func NewStore() *Store {
	return &Store{
		categories: make(map[string]ports.Category),
		products:   make(map[string]ports.Product),
	}
}

func (s *Store) ListCategories(_ context.Context) ([]ports.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Category, 0, len(s.categories))
	for _, category := range s.categories {
		items = append(items, category)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CategoryID < items[j].CategoryID })
	return items, nil
}

func (s *Store) GetCategory(_ context.Context, categoryID string) (ports.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[categoryID]
	if !ok {
		return ports.Category{}, domainerrors.ErrCategoryNotFound
	}
	return category, nil
}

func (s *Store) CreateCategory(_ context.Context, category ports.Category) (ports.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[category.CategoryID] = category
	return category, nil
}

func (s *Store) UpdateCategory(_ context.Context, categoryID string, input ports.CategoryInput) (ports.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[categoryID]
	if !ok {
		return ports.Category{}, domainerrors.ErrCategoryNotFound
	}
	category.Name = input.Name
	category.Icon = input.Icon
	category.Color = input.Color
	s.categories[categoryID] = category
	return category, nil
}

func (s *Store) DeleteCategory(_ context.Context, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[categoryID]; !ok {
		return domainerrors.ErrCategoryNotFound
	}
	delete(s.categories, categoryID)
	return nil
}

func (s *Store) ListProducts(_ context.Context, filter ports.ProductFilter) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(filter.CategoryIDs))
	for _, id := range filter.CategoryIDs {
		wanted[id] = true
	}

	items := make([]ports.Product, 0, len(s.products))
	for _, product := range s.products {
		if len(wanted) > 0 && !wanted[product.CategoryID] {
			continue
		}
		items = append(items, s.populateCategory(product))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return s.populateCategory(product), nil
}

func (s *Store) CreateProduct(_ context.Context, product ports.Product) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ProductID] = product
	return s.populateCategory(product), nil
}

func (s *Store) UpdateProduct(_ context.Context, productID string, input ports.ProductInput) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	product.Name = input.Name
	product.Description = input.Description
	product.RichDescription = input.RichDescription
	if input.Image != "" {
		product.Image = input.Image
	}
	product.Brand = input.Brand
	product.Price = input.Price
	product.CategoryID = input.CategoryID
	product.CountInStock = input.CountInStock
	product.Rating = input.Rating
	product.NumReviews = input.NumReviews
	product.IsFeatured = input.IsFeatured
	s.products[productID] = product
	return s.populateCategory(product), nil
}

func (s *Store) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return domainerrors.ErrProductNotFound
	}
	delete(s.products, productID)
	return nil
}

func (s *Store) CountProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *Store) ListFeatured(_ context.Context, limit int) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Product, 0, limit)
	for _, product := range s.products {
		if !product.IsFeatured {
			continue
		}
		items = append(items, s.populateCategory(product))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) SetProductImages(_ context.Context, productID string, imageURLs []string) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	product.Images = append([]string(nil), imageURLs...)
	s.products[productID] = product
	return s.populateCategory(product), nil
}

// populateCategory resolves the category reference; callers hold the lock.
func (s *Store) populateCategory(product ports.Product) ports.Product {
	if category, ok := s.categories[product.CategoryID]; ok {
		populated := category
		product.Category = &populated
	}
	return product
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("cat_%04d", atomic.AddUint64(&s.sequence, 1)), nil
}
