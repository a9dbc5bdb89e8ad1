package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Category struct {
	CategoryID string
	Name       string
	Icon       string
	Color      string
}

type Product struct {
	ProductID       string
	Name            string
	Description     string
	RichDescription string
	Image           string
	Images          []string
	Brand           string
	Price           float64
	CategoryID      string
	Category        *Category
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
	DateCreated     time.Time
}

// ProductFilter narrows a listing to the given category ids; empty means all.
type ProductFilter struct {
	CategoryIDs []string
}

type CategoryInput struct {
	Name  string
	Icon  string
	Color string
}

type ProductInput struct {
	Name            string
	Description     string
	RichDescription string
	Image           string
	Brand           string
	Price           float64
	CategoryID      string
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
}

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, categoryID string) (Category, error)
	CreateCategory(ctx context.Context, category Category) (Category, error)
	UpdateCategory(ctx context.Context, categoryID string, input CategoryInput) (Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	CreateProduct(ctx context.Context, product Product) (Product, error)
	UpdateProduct(ctx context.Context, productID string, input ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	CountProducts(ctx context.Context) (int64, error)
	ListFeatured(ctx context.Context, limit int) ([]Product, error)
	SetProductImages(ctx context.Context, productID string, imageURLs []string) (Product, error)
}
