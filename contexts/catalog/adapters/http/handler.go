package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"eshop/contexts/catalog/application"
	"eshop/contexts/catalog/ports"
	httptransport "eshop/contexts/catalog/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListCategoriesHandler(ctx context.Context) (httptransport.ListCategoriesResponse, error) {
	categories, err := h.Service.ListCategories(ctx)
	if err != nil {
		return httptransport.ListCategoriesResponse{}, err
	}
	resp := httptransport.ListCategoriesResponse{Status: "success", Data: make([]httptransport.CategoryDTO, 0, len(categories))}
	for _, category := range categories {
		resp.Data = append(resp.Data, toCategoryDTO(category))
	}
	return resp, nil
}

func (h Handler) GetCategoryHandler(ctx context.Context, categoryID string) (httptransport.CategoryResponse, error) {
	category, err := h.Service.GetCategory(ctx, categoryID)
	if err != nil {
		return httptransport.CategoryResponse{}, err
	}
	return httptransport.CategoryResponse{Status: "success", Data: toCategoryDTO(category)}, nil
}

func (h Handler) CreateCategoryHandler(ctx context.Context, req httptransport.CategoryRequest) (httptransport.CategoryResponse, error) {
	category, err := h.Service.CreateCategory(ctx, ports.CategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		return httptransport.CategoryResponse{}, err
	}
	return httptransport.CategoryResponse{Status: "success", Data: toCategoryDTO(category)}, nil
}

func (h Handler) UpdateCategoryHandler(ctx context.Context, categoryID string, req httptransport.CategoryRequest) (httptransport.CategoryResponse, error) {
	category, err := h.Service.UpdateCategory(ctx, categoryID, ports.CategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		return httptransport.CategoryResponse{}, err
	}
	return httptransport.CategoryResponse{Status: "success", Data: toCategoryDTO(category)}, nil
}

func (h Handler) DeleteCategoryHandler(ctx context.Context, categoryID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteCategory(ctx, categoryID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true, Message: "category is deleted"}, nil
}

func (h Handler) ListProductsHandler(ctx context.Context, categoryIDs []string) (httptransport.ListProductsResponse, error) {
	products, err := h.Service.ListProducts(ctx, ports.ProductFilter{CategoryIDs: categoryIDs})
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	resp := httptransport.ListProductsResponse{Status: "success", Data: make([]httptransport.ProductDTO, 0, len(products))}
	for _, product := range products {
		resp.Data = append(resp.Data, toProductDTO(product))
	}
	return resp, nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.ProductResponse, error) {
	product, err := h.Service.GetProduct(ctx, productID)
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return httptransport.ProductResponse{Status: "success", Data: toProductDTO(product)}, nil
}

func (h Handler) CreateProductHandler(ctx context.Context, req httptransport.ProductRequest) (httptransport.ProductResponse, error) {
	product, err := h.Service.CreateProduct(ctx, toProductInput(req))
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return httptransport.ProductResponse{Status: "success", Data: toProductDTO(product)}, nil
}

func (h Handler) UpdateProductHandler(ctx context.Context, productID string, req httptransport.ProductRequest) (httptransport.ProductResponse, error) {
	product, err := h.Service.UpdateProduct(ctx, productID, toProductInput(req))
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return httptransport.ProductResponse{Status: "success", Data: toProductDTO(product)}, nil
}

func (h Handler) DeleteProductHandler(ctx context.Context, productID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteProduct(ctx, productID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true, Message: "product is deleted"}, nil
}

func (h Handler) CountProductsHandler(ctx context.Context) (httptransport.CountProductsResponse, error) {
	count, err := h.Service.CountProducts(ctx)
	if err != nil {
		return httptransport.CountProductsResponse{}, err
	}
	return httptransport.CountProductsResponse{ProductCount: count}, nil
}

func (h Handler) ListFeaturedHandler(ctx context.Context, limit int) (httptransport.ListProductsResponse, error) {
	products, err := h.Service.ListFeatured(ctx, limit)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	resp := httptransport.ListProductsResponse{Status: "success", Data: make([]httptransport.ProductDTO, 0, len(products))}
	for _, product := range products {
		resp.Data = append(resp.Data, toProductDTO(product))
	}
	return resp, nil
}

func (h Handler) SetGalleryHandler(ctx context.Context, productID string, imageURLs []string) (httptransport.ProductResponse, error) {
	product, err := h.Service.SetProductImages(ctx, productID, imageURLs)
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return httptransport.ProductResponse{Status: "success", Data: toProductDTO(product)}, nil
}

func toProductInput(req httptransport.ProductRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           req.Image,
		Brand:           req.Brand,
		Price:           req.Price,
		CategoryID:      req.Category,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
}

func toCategoryDTO(category ports.Category) httptransport.CategoryDTO {
	return httptransport.CategoryDTO{
		CategoryID: category.CategoryID,
		Name:       category.Name,
		Icon:       category.Icon,
		Color:      category.Color,
	}
}

func toProductDTO(product ports.Product) httptransport.ProductDTO {
	dto := httptransport.ProductDTO{
		ProductID:       product.ProductID,
		Name:            product.Name,
		Description:     product.Description,
		RichDescription: product.RichDescription,
		Image:           product.Image,
		Images:          product.Images,
		Brand:           product.Brand,
		Price:           product.Price,
		CountInStock:    product.CountInStock,
		Rating:          product.Rating,
		NumReviews:      product.NumReviews,
		IsFeatured:      product.IsFeatured,
		DateCreated:     product.DateCreated.UTC().Format(time.RFC3339),
	}
	if product.Category != nil {
		category := toCategoryDTO(*product.Category)
		dto.Category = &category
	}
	return dto
}
