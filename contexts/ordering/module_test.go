package ordering_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"eshop/contexts/ordering"
	"eshop/contexts/ordering/application"
	domainerrors "eshop/contexts/ordering/domain/errors"
	"eshop/contexts/ordering/ports"
	httptransport "eshop/contexts/ordering/transport/http"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType)
	}
	return types
}

func seededModule(events ports.EventPublisher) ordering.Module {
	module := ordering.NewInMemoryModule(events, nil)
	module.Store.SeedProduct(ports.ProductRef{ProductID: "prod-chair", Name: "Chair", Price: 10})
	module.Store.SeedProduct(ports.ProductRef{ProductID: "prod-lamp", Name: "Lamp", Price: 5})
	module.Store.SeedUserName("user-1", "Alice Example")
	return module
}

func placeOrderRequest(items ...httptransport.OrderItemRequest) httptransport.PlaceOrderRequest {
	return httptransport.PlaceOrderRequest{
		OrderItems:       items,
		ShippingAddress1: "1 Main Street",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "USA",
		Phone:            "555-0100",
	}
}

func TestPlaceOrderComputesTotalFromCatalogPrices(t *testing.T) {
	module := seededModule(nil)
	ctx := context.Background()

	resp, err := module.Handler.PlaceOrderHandler(ctx, "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 2},
		httptransport.OrderItemRequest{Product: "prod-lamp", Quantity: 3},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if resp.Data.TotalPrice != 35 {
		t.Fatalf("expected total 35 (2*10 + 3*5), got %v", resp.Data.TotalPrice)
	}
	if len(resp.Data.OrderItemIDs) != 2 {
		t.Fatalf("expected 2 order item ids, got %d", len(resp.Data.OrderItemIDs))
	}
	if resp.Data.Status != "pending" {
		t.Fatalf("expected default status pending, got %q", resp.Data.Status)
	}
	if resp.Data.UserID != "user-1" {
		t.Fatalf("expected order attributed to user-1, got %q", resp.Data.UserID)
	}
}

func TestGetOrderPopulatesItemGraph(t *testing.T) {
	module := ordering.NewInMemoryModule(nil, nil)
	module.Store.SeedProduct(ports.ProductRef{
		ProductID: "prod-chair",
		Name:      "Chair",
		Price:     10,
		Category:  &ports.CategoryRef{CategoryID: "cat-furniture", Name: "furniture"},
	})
	ctx := context.Background()

	placed, err := module.Handler.PlaceOrderHandler(ctx, "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 2},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	got, err := module.Handler.GetOrderHandler(ctx, placed.Data.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(got.Data.Items) != 1 {
		t.Fatalf("expected 1 populated item, got %d", len(got.Data.Items))
	}
	item := got.Data.Items[0]
	if item.Product == nil || item.Product.Price != 10 {
		t.Fatalf("expected product with price populated, got %+v", item.Product)
	}
	if item.Product.Category == nil || item.Product.Category.Name != "furniture" {
		t.Fatalf("expected category populated on product, got %+v", item.Product.Category)
	}
}

func TestPlaceOrderWithoutItemsTotalsZero(t *testing.T) {
	module := seededModule(nil)

	resp, err := module.Handler.PlaceOrderHandler(context.Background(), "user-1", placeOrderRequest())
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if resp.Data.TotalPrice != 0 {
		t.Fatalf("expected zero total for empty order, got %v", resp.Data.TotalPrice)
	}
	if len(resp.Data.OrderItemIDs) != 0 {
		t.Fatalf("expected no item ids, got %v", resp.Data.OrderItemIDs)
	}
}

func TestPlaceOrderUnknownProductCompensatesLineItems(t *testing.T) {
	module := seededModule(nil)

	_, err := module.Handler.PlaceOrderHandler(context.Background(), "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 1},
		httptransport.OrderItemRequest{Product: "prod-ghost", Quantity: 1},
	))
	if !errors.Is(err, domainerrors.ErrOrderItemCreation) {
		t.Fatalf("expected order item creation error, got %v", err)
	}
	if count := module.Store.LineItemCount(); count != 0 {
		t.Fatalf("expected compensated line items, %d left behind", count)
	}
}

func TestPlaceOrderPersistFailureCompensatesLineItems(t *testing.T) {
	module := seededModule(nil)
	module.Store.FailCreateOrder = true

	_, err := module.Handler.PlaceOrderHandler(context.Background(), "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 1},
	))
	if !errors.Is(err, domainerrors.ErrOrderCreation) {
		t.Fatalf("expected order creation error, got %v", err)
	}
	if count := module.Store.LineItemCount(); count != 0 {
		t.Fatalf("expected compensated line items, %d left behind", count)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	module := seededModule(nil)
	ctx := context.Background()

	missingCity := placeOrderRequest(httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 1})
	missingCity.City = ""
	if _, err := module.Handler.PlaceOrderHandler(ctx, "user-1", missingCity); !errors.Is(err, domainerrors.ErrMissingShippingField) {
		t.Fatalf("expected missing shipping field error, got %v", err)
	}

	badQuantity := placeOrderRequest(httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 0})
	if _, err := module.Handler.PlaceOrderHandler(ctx, "user-1", badQuantity); !errors.Is(err, domainerrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
}

func TestDeleteOrderRemovesLineItems(t *testing.T) {
	module := seededModule(nil)
	ctx := context.Background()

	placed, err := module.Handler.PlaceOrderHandler(ctx, "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 1},
		httptransport.OrderItemRequest{Product: "prod-lamp", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := module.Handler.DeleteOrderHandler(ctx, placed.Data.OrderID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}
	if count := module.Store.LineItemCount(); count != 0 {
		t.Fatalf("expected line items removed with order, %d left", count)
	}
	if _, err := module.Handler.GetOrderHandler(ctx, placed.Data.OrderID); !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found after delete, got %v", err)
	}
}

func TestDeleteMissingOrder(t *testing.T) {
	module := seededModule(nil)

	_, err := module.Handler.DeleteOrderHandler(context.Background(), "ord-missing")
	if !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestOrderLifecycleEvents(t *testing.T) {
	publisher := &capturePublisher{}
	module := seededModule(publisher)
	ctx := context.Background()

	placed, err := module.Handler.PlaceOrderHandler(ctx, "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := module.Handler.UpdateStatusHandler(ctx, placed.Data.OrderID, httptransport.UpdateOrderStatusRequest{Status: "shipped"}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if _, err := module.Handler.DeleteOrderHandler(ctx, placed.Data.OrderID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}

	want := []string{
		application.EventOrderPlaced,
		application.EventOrderStatusChanged,
		application.EventOrderDeleted,
	}
	got := publisher.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected event %q at position %d, got %v", want[i], i, got)
		}
	}
}

func TestUserOrdersAreScopedToUser(t *testing.T) {
	module := seededModule(nil)
	ctx := context.Background()

	if _, err := module.Handler.PlaceOrderHandler(ctx, "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 1},
	)); err != nil {
		t.Fatalf("place order for user-1 failed: %v", err)
	}
	if _, err := module.Handler.PlaceOrderHandler(ctx, "user-2", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-lamp", Quantity: 2},
	)); err != nil {
		t.Fatalf("place order for user-2 failed: %v", err)
	}

	resp, err := module.Handler.ListUserOrdersHandler(ctx, "user-1")
	if err != nil {
		t.Fatalf("list user orders failed: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 order for user-1, got %d", len(resp.Data))
	}
	if resp.Data[0].UserID != "user-1" {
		t.Fatalf("expected user-1 order, got %q", resp.Data[0].UserID)
	}
	if resp.Data[0].UserName != "Alice Example" {
		t.Fatalf("expected populated user name, got %q", resp.Data[0].UserName)
	}
}

func TestTotalSalesAndCount(t *testing.T) {
	module := seededModule(nil)
	ctx := context.Background()

	sales, err := module.Handler.TotalSalesHandler(ctx)
	if err != nil {
		t.Fatalf("total sales failed: %v", err)
	}
	if sales.TotalSales != 0 {
		t.Fatalf("expected zero sales with no orders, got %v", sales.TotalSales)
	}

	if _, err := module.Handler.PlaceOrderHandler(ctx, "user-1", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-chair", Quantity: 2},
	)); err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := module.Handler.PlaceOrderHandler(ctx, "user-2", placeOrderRequest(
		httptransport.OrderItemRequest{Product: "prod-lamp", Quantity: 1},
	)); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	sales, err = module.Handler.TotalSalesHandler(ctx)
	if err != nil {
		t.Fatalf("total sales failed: %v", err)
	}
	if sales.TotalSales != 25 {
		t.Fatalf("expected total sales 25, got %v", sales.TotalSales)
	}

	count, err := module.Handler.CountOrdersHandler(ctx)
	if err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count.OrderCount != 2 {
		t.Fatalf("expected 2 orders, got %d", count.OrderCount)
	}
}
