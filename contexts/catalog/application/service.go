package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "eshop/contexts/catalog/domain/errors"
	"eshop/contexts/catalog/ports"
)

// Stock bounds carried over from the catalog schema: a product holds at most
// 300 units and never goes negative.
const (
	minStock = 0
	maxStock = 300
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

func (s Service) ListCategories(ctx context.Context) ([]ports.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s Service) GetCategory(ctx context.Context, categoryID string) (ports.Category, error) {
	if strings.TrimSpace(categoryID) == "" {
		return ports.Category{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetCategory(ctx, categoryID)
}

func (s Service) CreateCategory(ctx context.Context, input ports.CategoryInput) (ports.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return ports.Category{}, domainerrors.ErrInvalidRequest
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return ports.Category{}, err
	}
	category, err := s.Repo.CreateCategory(ctx, ports.Category{
		CategoryID: id,
		Name:       input.Name,
		Icon:       input.Icon,
		Color:      input.Color,
	})
	if err != nil {
		return ports.Category{}, err
	}
	s.logger().Info("category created",
		"event", "category_created",
		"module", "contexts/catalog",
		"layer", "application",
		"category_id", category.CategoryID,
	)
	return category, nil
}

func (s Service) UpdateCategory(ctx context.Context, categoryID string, input ports.CategoryInput) (ports.Category, error) {
	if strings.TrimSpace(categoryID) == "" || strings.TrimSpace(input.Name) == "" {
		return ports.Category{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.UpdateCategory(ctx, categoryID, input)
}

func (s Service) DeleteCategory(ctx context.Context, categoryID string) error {
	if strings.TrimSpace(categoryID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Repo.DeleteCategory(ctx, categoryID)
}

func (s Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]ports.Product, error) {
	ids := make([]string, 0, len(filter.CategoryIDs))
	for _, id := range filter.CategoryIDs {
		if value := strings.TrimSpace(id); value != "" {
			ids = append(ids, value)
		}
	}
	filter.CategoryIDs = ids
	return s.Repo.ListProducts(ctx, filter)
}

func (s Service) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetProduct(ctx, productID)
}

func (s Service) CreateProduct(ctx context.Context, input ports.ProductInput) (ports.Product, error) {
	if err := s.validateProduct(ctx, input); err != nil {
		return ports.Product{}, err
	}
	if strings.TrimSpace(input.Image) == "" {
		return ports.Product{}, domainerrors.ErrImageRequired
	}

	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return ports.Product{}, err
	}
	product, err := s.Repo.CreateProduct(ctx, ports.Product{
		ProductID:       id,
		Name:            input.Name,
		Description:     input.Description,
		RichDescription: input.RichDescription,
		Image:           input.Image,
		Brand:           input.Brand,
		Price:           input.Price,
		CategoryID:      input.CategoryID,
		CountInStock:    input.CountInStock,
		Rating:          input.Rating,
		NumReviews:      input.NumReviews,
		IsFeatured:      input.IsFeatured,
		DateCreated:     s.Clock.Now(),
	})
	if err != nil {
		return ports.Product{}, err
	}
	s.logger().Info("product created",
		"event", "product_created",
		"module", "contexts/catalog",
		"layer", "application",
		"product_id", product.ProductID,
		"category_id", product.CategoryID,
	)
	return product, nil
}

func (s Service) UpdateProduct(ctx context.Context, productID string, input ports.ProductInput) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	if err := s.validateProduct(ctx, input); err != nil {
		return ports.Product{}, err
	}
	return s.Repo.UpdateProduct(ctx, productID, input)
}

func (s Service) DeleteProduct(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Repo.DeleteProduct(ctx, productID)
}

func (s Service) CountProducts(ctx context.Context) (int64, error) {
	return s.Repo.CountProducts(ctx)
}

func (s Service) ListFeatured(ctx context.Context, limit int) ([]ports.Product, error) {
	if limit < 0 {
		limit = 0
	}
	return s.Repo.ListFeatured(ctx, limit)
}

func (s Service) SetProductImages(ctx context.Context, productID string, imageURLs []string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.SetProductImages(ctx, productID, imageURLs)
}

// validateProduct enforces the field constraints that the document schema
// used to carry implicitly: required name/description, an existing category
// and bounded stock.
func (s Service) validateProduct(ctx context.Context, input ports.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.CategoryID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if input.Price < 0 {
		return domainerrors.ErrInvalidRequest
	}
	if input.CountInStock < minStock || input.CountInStock > maxStock {
		return domainerrors.ErrInvalidStock
	}
	if _, err := s.Repo.GetCategory(ctx, input.CategoryID); err != nil {
		return domainerrors.ErrInvalidCategory
	}
	return nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
