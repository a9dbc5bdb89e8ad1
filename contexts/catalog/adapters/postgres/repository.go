package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	domainerrors "eshop/contexts/catalog/domain/errors"
	"eshop/contexts/catalog/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// AutoMigrate creates the categories and products tables. Called once from
// bootstrap.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&categoryModel{}, &productModel{})
}

func (r *Repository) ListCategories(ctx context.Context) ([]ports.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.Category, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetCategory(ctx context.Context, categoryID string) (ports.Category, error) {
	var row categoryModel
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Category{}, domainerrors.ErrCategoryNotFound
		}
		return ports.Category{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateCategory(ctx context.Context, category ports.Category) (ports.Category, error) {
	row := categoryModel{
		CategoryID: category.CategoryID,
		Name:       category.Name,
		Icon:       category.Icon,
		Color:      category.Color,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.Category{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateCategory(ctx context.Context, categoryID string, input ports.CategoryInput) (ports.Category, error) {
	result := r.db.WithContext(ctx).
		Model(&categoryModel{}).
		Where("category_id = ?", categoryID).
		Updates(map[string]any{
			"name":  input.Name,
			"icon":  input.Icon,
			"color": input.Color,
		})
	if result.Error != nil {
		return ports.Category{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Category{}, domainerrors.ErrCategoryNotFound
	}
	return r.GetCategory(ctx, categoryID)
}

func (r *Repository) DeleteCategory(ctx context.Context, categoryID string) error {
	result := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&categoryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]ports.Product, error) {
	tx := r.db.WithContext(ctx).Model(&productModel{})
	if len(filter.CategoryIDs) > 0 {
		tx = tx.Where("category_id IN ?", filter.CategoryIDs)
	}

	var rows []productModel
	if err := tx.Order("date_created DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.populateCategories(ctx, rows)
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, domainerrors.ErrProductNotFound
		}
		return ports.Product{}, err
	}
	items, err := r.populateCategories(ctx, []productModel{row})
	if err != nil {
		return ports.Product{}, err
	}
	return items[0], nil
}

func (r *Repository) CreateProduct(ctx context.Context, product ports.Product) (ports.Product, error) {
	row := fromEntity(product)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.Product{}, err
	}
	return r.GetProduct(ctx, row.ProductID)
}

func (r *Repository) UpdateProduct(ctx context.Context, productID string, input ports.ProductInput) (ports.Product, error) {
	patch := map[string]any{
		"name":             input.Name,
		"description":      input.Description,
		"rich_description": input.RichDescription,
		"brand":            input.Brand,
		"price":            input.Price,
		"category_id":      input.CategoryID,
		"count_in_stock":   input.CountInStock,
		"rating":           input.Rating,
		"num_reviews":      input.NumReviews,
		"is_featured":      input.IsFeatured,
	}
	if input.Image != "" {
		patch["image"] = input.Image
	}

	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ?", productID).
		Updates(patch)
	if result.Error != nil {
		return ports.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return r.GetProduct(ctx, productID)
}

func (r *Repository) DeleteProduct(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&productModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProductNotFound
	}
	return nil
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]ports.Product, error) {
	tx := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("is_featured = ?", true).
		Order("date_created DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []productModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.populateCategories(ctx, rows)
}

func (r *Repository) SetProductImages(ctx context.Context, productID string, imageURLs []string) (ports.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ?", productID).
		Update("images", imageURLs)
	if result.Error != nil {
		return ports.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return r.GetProduct(ctx, productID)
}

// populateCategories resolves category references for a batch of product rows
// with a single IN query.
func (r *Repository) populateCategories(ctx context.Context, rows []productModel) ([]ports.Product, error) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.CategoryID != "" && !seen[row.CategoryID] {
			seen[row.CategoryID] = true
			ids = append(ids, row.CategoryID)
		}
	}

	byID := make(map[string]ports.Category, len(ids))
	if len(ids) > 0 {
		var categories []categoryModel
		if err := r.db.WithContext(ctx).
			Where("category_id IN ?", ids).
			Find(&categories).
			Error; err != nil {
			return nil, err
		}
		for _, category := range categories {
			byID[category.CategoryID] = category.toEntity()
		}
	}

	items := make([]ports.Product, 0, len(rows))
	for _, row := range rows {
		product := row.toEntity()
		if category, ok := byID[row.CategoryID]; ok {
			populated := category
			product.Category = &populated
		}
		items = append(items, product)
	}
	return items, nil
}

type categoryModel struct {
	CategoryID string `gorm:"column:category_id;primaryKey"`
	Name       string `gorm:"column:name"`
	Icon       string `gorm:"column:icon"`
	Color      string `gorm:"column:color"`
}

func (categoryModel) TableName() string {
	return "categories"
}

func (m categoryModel) toEntity() ports.Category {
	return ports.Category{
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Icon:       m.Icon,
		Color:      m.Color,
	}
}

type productModel struct {
	ProductID       string    `gorm:"column:product_id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Description     string    `gorm:"column:description"`
	RichDescription string    `gorm:"column:rich_description"`
	Image           string    `gorm:"column:image"`
	Images          []string  `gorm:"column:images;serializer:json"`
	Brand           string    `gorm:"column:brand"`
	Price           float64   `gorm:"column:price"`
	CategoryID      string    `gorm:"column:category_id;index"`
	CountInStock    int       `gorm:"column:count_in_stock"`
	Rating          float64   `gorm:"column:rating"`
	NumReviews      int       `gorm:"column:num_reviews"`
	IsFeatured      bool      `gorm:"column:is_featured"`
	DateCreated     time.Time `gorm:"column:date_created"`
}

func (productModel) TableName() string {
	return "products"
}

func (m productModel) toEntity() ports.Product {
	return ports.Product{
		ProductID:       m.ProductID,
		Name:            m.Name,
		Description:     m.Description,
		RichDescription: m.RichDescription,
		Image:           m.Image,
		Images:          m.Images,
		Brand:           m.Brand,
		Price:           m.Price,
		CategoryID:      m.CategoryID,
		CountInStock:    m.CountInStock,
		Rating:          m.Rating,
		NumReviews:      m.NumReviews,
		IsFeatured:      m.IsFeatured,
		DateCreated:     m.DateCreated,
	}
}

func fromEntity(product ports.Product) productModel {
	return productModel{
		ProductID:       product.ProductID,
		Name:            product.Name,
		Description:     product.Description,
		RichDescription: product.RichDescription,
		Image:           product.Image,
		Images:          product.Images,
		Brand:           product.Brand,
		Price:           product.Price,
		CategoryID:      product.CategoryID,
		CountInStock:    product.CountInStock,
		Rating:          product.Rating,
		NumReviews:      product.NumReviews,
		IsFeatured:      product.IsFeatured,
		DateCreated:     product.DateCreated,
	}
}
