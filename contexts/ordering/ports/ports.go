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

// CategoryRef and ProductRef are read-side projections of catalog entities,
// populated when an order graph is fetched.
type CategoryRef struct {
	CategoryID string
	Name       string
}

type ProductRef struct {
	ProductID string
	Name      string
	Price     float64
	Category  *CategoryRef
}

type LineItem struct {
	LineItemID string
	Quantity   int
	ProductID  string
	Product    *ProductRef
}

type Order struct {
	OrderID          string
	ItemIDs          []string
	Items            []LineItem
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	TotalPrice       float64
	UserID           string
	UserName         string
	DateOrdered      time.Time
}

type Repository interface {
	CreateLineItem(ctx context.Context, item LineItem) (LineItem, error)
	// GetLineItemPriced re-fetches a line item joined with its product so the
	// workflow can compute quantity * price.
	GetLineItemPriced(ctx context.Context, lineItemID string) (LineItem, error)
	DeleteLineItem(ctx context.Context, lineItemID string) error

	CreateOrder(ctx context.Context, order Order) (Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, orderID string) (Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) (Order, error)
	DeleteOrder(ctx context.Context, orderID string) (Order, error)
	TotalSales(ctx context.Context) (float64, error)
	CountOrders(ctx context.Context) (int64, error)
}

// EventEnvelope is published on the in-process bus for order lifecycle
// changes.
type EventEnvelope struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
	Payload    []byte
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
