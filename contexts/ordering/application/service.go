package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	domainerrors "eshop/contexts/ordering/domain/errors"
	"eshop/contexts/ordering/ports"
)

const (
	TopicOrders = "orders"

	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"

	defaultStatus = "pending"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Events ports.EventPublisher
	Logger *slog.Logger
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	Items            []OrderItemInput
}

// PlaceOrder runs the order creation workflow:
//
//  1. create one line-item record per requested item (concurrently),
//  2. re-fetch each created item joined with its product price (concurrently),
//  3. sum quantity*price into the order total,
//  4. persist the order referencing the created item ids.
//
// Line items created before a failure are compensated with best-effort
// deletes, so a failed placement does not leave orphaned items behind.
func (s Service) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (ports.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.Order{}, domainerrors.ErrInvalidRequest
	}
	if err := validateShipping(input); err != nil {
		return ports.Order{}, err
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ports.Order{}, domainerrors.ErrInvalidRequest
		}
		if item.Quantity <= 0 {
			return ports.Order{}, domainerrors.ErrInvalidQuantity
		}
	}

	itemIDs := make([]string, len(input.Items))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, item := range input.Items {
		group.Go(func() error {
			id, err := s.IDs.NewID(groupCtx)
			if err != nil {
				return err
			}
			created, err := s.Repo.CreateLineItem(groupCtx, ports.LineItem{
				LineItemID: id,
				Quantity:   item.Quantity,
				ProductID:  item.ProductID,
			})
			if err != nil {
				return err
			}
			itemIDs[i] = created.LineItemID
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		s.compensateLineItems(ctx, itemIDs)
		s.logger().Error("line item creation failed",
			"event", "order_item_create_failed",
			"module", "contexts/ordering",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return ports.Order{}, domainerrors.ErrOrderItemCreation
	}

	lineTotals := make([]float64, len(itemIDs))
	priceGroup, priceCtx := errgroup.WithContext(ctx)
	for i, itemID := range itemIDs {
		priceGroup.Go(func() error {
			item, err := s.Repo.GetLineItemPriced(priceCtx, itemID)
			if err != nil {
				return err
			}
			if item.Product == nil {
				return domainerrors.ErrUnknownProduct
			}
			lineTotals[i] = item.Product.Price * float64(item.Quantity)
			return nil
		})
	}
	if err := priceGroup.Wait(); err != nil {
		s.compensateLineItems(ctx, itemIDs)
		return ports.Order{}, domainerrors.ErrOrderItemCreation
	}

	var totalPrice float64
	for _, lineTotal := range lineTotals {
		totalPrice += lineTotal
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = defaultStatus
	}

	orderID, err := s.IDs.NewID(ctx)
	if err != nil {
		s.compensateLineItems(ctx, itemIDs)
		return ports.Order{}, domainerrors.ErrOrderCreation
	}
	order, err := s.Repo.CreateOrder(ctx, ports.Order{
		OrderID:          orderID,
		ItemIDs:          itemIDs,
		ShippingAddress1: input.ShippingAddress1,
		ShippingAddress2: input.ShippingAddress2,
		City:             input.City,
		Zip:              input.Zip,
		Country:          input.Country,
		Phone:            input.Phone,
		Status:           status,
		TotalPrice:       totalPrice,
		UserID:           userID,
		DateOrdered:      s.Clock.Now(),
	})
	if err != nil {
		s.compensateLineItems(ctx, itemIDs)
		s.logger().Error("order persistence failed",
			"event", "order_create_failed",
			"module", "contexts/ordering",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return ports.Order{}, domainerrors.ErrOrderCreation
	}

	s.publish(ctx, EventOrderPlaced, order)
	s.logger().Info("order placed",
		"event", "order_placed",
		"module", "contexts/ordering",
		"layer", "application",
		"order_id", order.OrderID,
		"user_id", userID,
		"total_price", order.TotalPrice,
		"item_count", len(order.ItemIDs),
	)
	return order, nil
}

func (s Service) ListOrders(ctx context.Context) ([]ports.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s Service) GetOrder(ctx context.Context, orderID string) (ports.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return ports.Order{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetOrder(ctx, orderID)
}

func (s Service) ListUserOrders(ctx context.Context, userID string) ([]ports.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListUserOrders(ctx, userID)
}

func (s Service) UpdateStatus(ctx context.Context, orderID string, status string) (ports.Order, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(status) == "" {
		return ports.Order{}, domainerrors.ErrInvalidRequest
	}
	order, err := s.Repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return ports.Order{}, err
	}
	s.publish(ctx, EventOrderStatusChanged, order)
	return order, nil
}

// DeleteOrder removes the order, then each referenced line item. Item removal
// is best-effort: a miss is logged and skipped rather than failing the
// delete that already happened.
func (s Service) DeleteOrder(ctx context.Context, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	order, err := s.Repo.DeleteOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for _, itemID := range order.ItemIDs {
		if err := s.Repo.DeleteLineItem(ctx, itemID); err != nil {
			s.logger().Warn("orphaned line item after order delete",
				"event", "order_item_delete_failed",
				"module", "contexts/ordering",
				"layer", "application",
				"order_id", orderID,
				"line_item_id", itemID,
				"error", err.Error(),
			)
		}
	}

	s.publish(ctx, EventOrderDeleted, order)
	return nil
}

func (s Service) TotalSales(ctx context.Context) (float64, error) {
	return s.Repo.TotalSales(ctx)
}

func (s Service) CountOrders(ctx context.Context) (int64, error) {
	return s.Repo.CountOrders(ctx)
}

// compensateLineItems deletes items created by a workflow run that did not
// produce an order.
func (s Service) compensateLineItems(ctx context.Context, itemIDs []string) {
	for _, itemID := range itemIDs {
		if itemID == "" {
			continue
		}
		if err := s.Repo.DeleteLineItem(ctx, itemID); err != nil {
			s.logger().Warn("line item compensation failed",
				"event", "order_item_compensation_failed",
				"module", "contexts/ordering",
				"layer", "application",
				"line_item_id", itemID,
				"error", err.Error(),
			)
		}
	}
}

func (s Service) publish(ctx context.Context, eventType string, order ports.Order) {
	if s.Events == nil {
		return
	}
	payload, err := json.Marshal(struct {
		OrderID    string  `json:"orderId"`
		UserID     string  `json:"userId"`
		Status     string  `json:"status"`
		TotalPrice float64 `json:"totalPrice"`
	}{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	})
	if err != nil {
		return
	}

	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		eventID = order.OrderID
	}
	if err := s.Events.Publish(ctx, TopicOrders, ports.EventEnvelope{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: s.Clock.Now(),
		Payload:    payload,
	}); err != nil {
		s.logger().Warn("order event publish failed",
			"event", "order_event_publish_failed",
			"module", "contexts/ordering",
			"layer", "application",
			"order_id", order.OrderID,
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func validateShipping(input PlaceOrderInput) error {
	required := []string{
		input.ShippingAddress1,
		input.City,
		input.Zip,
		input.Country,
		input.Phone,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return domainerrors.ErrMissingShippingField
		}
	}
	return nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
