package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "eshop/contexts/ordering/domain/errors"
	"eshop/contexts/ordering/ports"
)

type Store struct {
	mu        sync.RWMutex
	lineItems map[string]ports.LineItem
	orders    map[string]ports.Order
	products  map[string]ports.ProductRef
	userNames map[string]string
	sequence  uint64

	// FailCreateOrder makes the next CreateOrder calls fail; used by tests to
	// exercise the compensation path.
	FailCreateOrder bool
}

func NewStore() *Store {
	return &Store{
		lineItems: make(map[string]ports.LineItem),
		orders:    make(map[string]ports.Order),
		products:  make(map[string]ports.ProductRef),
		userNames: make(map[string]string),
	}
}

// SeedProduct registers a catalog projection the priced line-item join reads
// from.
func (s *Store) SeedProduct(product ports.ProductRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ProductID] = product
}

// SeedUserName registers the display name populated on order listings.
func (s *Store) SeedUserName(userID string, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userNames[userID] = name
}

func (s *Store) CreateLineItem(_ context.Context, item ports.LineItem) (ports.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[item.ProductID]; !ok {
		return ports.LineItem{}, domainerrors.ErrUnknownProduct
	}
	s.lineItems[item.LineItemID] = item
	return item, nil
}

func (s *Store) GetLineItemPriced(_ context.Context, lineItemID string) (ports.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.lineItems[lineItemID]
	if !ok {
		return ports.LineItem{}, domainerrors.ErrLineItemNotFound
	}
	return s.populateItem(item), nil
}

func (s *Store) DeleteLineItem(_ context.Context, lineItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lineItems[lineItemID]; !ok {
		return domainerrors.ErrLineItemNotFound
	}
	delete(s.lineItems, lineItemID)
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order ports.Order) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreateOrder {
		return ports.Order{}, errors.New("simulated order insert failure")
	}
	order.ItemIDs = append([]string(nil), order.ItemIDs...)
	s.orders[order.OrderID] = order
	return s.populateOrder(order, false), nil
}

func (s *Store) ListOrders(_ context.Context) ([]ports.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Order, 0, len(s.orders))
	for _, order := range s.orders {
		items = append(items, s.populateOrder(order, false))
	}
	sortByDateDesc(items)
	return items, nil
}

func (s *Store) GetOrder(_ context.Context, orderID string) (ports.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	return s.populateOrder(order, true), nil
}

func (s *Store) ListUserOrders(_ context.Context, userID string) ([]ports.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			items = append(items, s.populateOrder(order, true))
		}
	}
	sortByDateDesc(items)
	return items, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID string, status string) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	order.Status = status
	s.orders[orderID] = order
	return s.populateOrder(order, false), nil
}

func (s *Store) DeleteOrder(_ context.Context, orderID string) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	delete(s.orders, orderID)
	return order, nil
}

func (s *Store) TotalSales(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, order := range s.orders {
		total += order.TotalPrice
	}
	return total, nil
}

func (s *Store) CountOrders(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.orders)), nil
}

// LineItemCount reports how many line-item records exist; used by workflow
// tests to assert compensation.
func (s *Store) LineItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lineItems)
}

func (s *Store) populateItem(item ports.LineItem) ports.LineItem {
	if product, ok := s.products[item.ProductID]; ok {
		populated := product
		item.Product = &populated
	}
	return item
}

func (s *Store) populateOrder(order ports.Order, deep bool) ports.Order {
	order.ItemIDs = append([]string(nil), order.ItemIDs...)
	order.UserName = s.userNames[order.UserID]
	if deep {
		order.Items = make([]ports.LineItem, 0, len(order.ItemIDs))
		for _, itemID := range order.ItemIDs {
			if item, ok := s.lineItems[itemID]; ok {
				order.Items = append(order.Items, s.populateItem(item))
			}
		}
	}
	return order
}

func sortByDateDesc(items []ports.Order) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DateOrdered.Equal(items[j].DateOrdered) {
			return items[i].OrderID > items[j].OrderID
		}
		return items[i].DateOrdered.After(items[j].DateOrdered)
	})
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("ord_%04d", atomic.AddUint64(&s.sequence, 1)), nil
}
