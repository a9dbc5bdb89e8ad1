package catalog_test

import (
	"context"
	"errors"
	"testing"

	"eshop/contexts/catalog"
	domainerrors "eshop/contexts/catalog/domain/errors"
	httptransport "eshop/contexts/catalog/transport/http"
)

func mustCreateCategory(t *testing.T, module catalog.Module, name string) string {
	t.Helper()
	resp, err := module.Handler.CreateCategoryHandler(context.Background(), httptransport.CategoryRequest{
		Name:  name,
		Icon:  "icon-" + name,
		Color: "#336699",
	})
	if err != nil {
		t.Fatalf("create category %q failed: %v", name, err)
	}
	return resp.Data.CategoryID
}

func productRequest(categoryID string) httptransport.ProductRequest {
	return httptransport.ProductRequest{
		Name:         "Desk Lamp",
		Description:  "A small desk lamp",
		Image:        "http://localhost/public/uploads/lamp.png",
		Brand:        "Lumen",
		Price:        19.5,
		Category:     categoryID,
		CountInStock: 12,
	}
}

func TestCategoryLifecycle(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()

	categoryID := mustCreateCategory(t, module, "furniture")

	got, err := module.Handler.GetCategoryHandler(ctx, categoryID)
	if err != nil {
		t.Fatalf("get category failed: %v", err)
	}
	if got.Data.Name != "furniture" {
		t.Fatalf("expected name furniture, got %q", got.Data.Name)
	}

	updated, err := module.Handler.UpdateCategoryHandler(ctx, categoryID, httptransport.CategoryRequest{Name: "home"})
	if err != nil {
		t.Fatalf("update category failed: %v", err)
	}
	if updated.Data.Name != "home" {
		t.Fatalf("expected updated name home, got %q", updated.Data.Name)
	}

	if _, err := module.Handler.DeleteCategoryHandler(ctx, categoryID); err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
	if _, err := module.Handler.GetCategoryHandler(ctx, categoryID); !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		t.Fatalf("expected category not found after delete, got %v", err)
	}
}

func TestCreateProductPopulatesCategory(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()

	categoryID := mustCreateCategory(t, module, "lighting")
	resp, err := module.Handler.CreateProductHandler(ctx, productRequest(categoryID))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if resp.Data.Category == nil || resp.Data.Category.CategoryID != categoryID {
		t.Fatalf("expected populated category %q, got %+v", categoryID, resp.Data.Category)
	}
	if resp.Data.DateCreated == "" {
		t.Fatal("expected dateCreated to be set")
	}
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)

	_, err := module.Handler.CreateProductHandler(context.Background(), productRequest("cat-missing"))
	if !errors.Is(err, domainerrors.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
}

func TestCreateProductStockBounds(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()
	categoryID := mustCreateCategory(t, module, "lighting")

	over := productRequest(categoryID)
	over.CountInStock = 301
	if _, err := module.Handler.CreateProductHandler(ctx, over); !errors.Is(err, domainerrors.ErrInvalidStock) {
		t.Fatalf("expected invalid stock for 301, got %v", err)
	}

	negative := productRequest(categoryID)
	negative.CountInStock = -1
	if _, err := module.Handler.CreateProductHandler(ctx, negative); !errors.Is(err, domainerrors.ErrInvalidStock) {
		t.Fatalf("expected invalid stock for -1, got %v", err)
	}

	boundary := productRequest(categoryID)
	boundary.CountInStock = 300
	if _, err := module.Handler.CreateProductHandler(ctx, boundary); err != nil {
		t.Fatalf("expected 300 to be accepted, got %v", err)
	}
}

func TestCreateProductRequiresImage(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	categoryID := mustCreateCategory(t, module, "lighting")

	req := productRequest(categoryID)
	req.Image = ""
	_, err := module.Handler.CreateProductHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrImageRequired) {
		t.Fatalf("expected image required, got %v", err)
	}
}

func TestUpdateProductKeepsImageWhenOmitted(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()
	categoryID := mustCreateCategory(t, module, "lighting")

	created, err := module.Handler.CreateProductHandler(ctx, productRequest(categoryID))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	update := productRequest(categoryID)
	update.Image = ""
	update.Price = 25
	resp, err := module.Handler.UpdateProductHandler(ctx, created.Data.ProductID, update)
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if resp.Data.Image != created.Data.Image {
		t.Fatalf("expected image kept through update, got %q", resp.Data.Image)
	}
	if resp.Data.Price != 25 {
		t.Fatalf("expected price 25 after update, got %v", resp.Data.Price)
	}
}

func TestListProductsFilteredByCategory(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()

	lighting := mustCreateCategory(t, module, "lighting")
	furniture := mustCreateCategory(t, module, "furniture")

	if _, err := module.Handler.CreateProductHandler(ctx, productRequest(lighting)); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	chair := productRequest(furniture)
	chair.Name = "Chair"
	if _, err := module.Handler.CreateProductHandler(ctx, chair); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	all, err := module.Handler.ListProductsHandler(ctx, nil)
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if len(all.Data) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all.Data))
	}

	filtered, err := module.Handler.ListProductsHandler(ctx, []string{furniture})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(filtered.Data) != 1 || filtered.Data[0].Name != "Chair" {
		t.Fatalf("expected only the chair, got %+v", filtered.Data)
	}
}

func TestListFeaturedHonorsLimit(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()
	categoryID := mustCreateCategory(t, module, "lighting")

	for i := 0; i < 3; i++ {
		req := productRequest(categoryID)
		req.IsFeatured = true
		if _, err := module.Handler.CreateProductHandler(ctx, req); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	plain := productRequest(categoryID)
	if _, err := module.Handler.CreateProductHandler(ctx, plain); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	featured, err := module.Handler.ListFeaturedHandler(ctx, 2)
	if err != nil {
		t.Fatalf("list featured failed: %v", err)
	}
	if len(featured.Data) != 2 {
		t.Fatalf("expected 2 featured products, got %d", len(featured.Data))
	}
	for _, product := range featured.Data {
		if !product.IsFeatured {
			t.Fatalf("expected only featured products, got %+v", product)
		}
	}
}

func TestSetGalleryReplacesImages(t *testing.T) {
	module := catalog.NewInMemoryModule(nil)
	ctx := context.Background()
	categoryID := mustCreateCategory(t, module, "lighting")

	created, err := module.Handler.CreateProductHandler(ctx, productRequest(categoryID))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	urls := []string{
		"http://localhost/public/uploads/a.png",
		"http://localhost/public/uploads/b.png",
	}
	resp, err := module.Handler.SetGalleryHandler(ctx, created.Data.ProductID, urls)
	if err != nil {
		t.Fatalf("set gallery failed: %v", err)
	}
	if len(resp.Data.Images) != 2 {
		t.Fatalf("expected 2 gallery images, got %v", resp.Data.Images)
	}

	count, err := module.Handler.CountProductsHandler(ctx)
	if err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if count.ProductCount != 1 {
		t.Fatalf("expected 1 product, got %d", count.ProductCount)
	}
}
