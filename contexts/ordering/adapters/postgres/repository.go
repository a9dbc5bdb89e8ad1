package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	domainerrors "eshop/contexts/ordering/domain/errors"
	"eshop/contexts/ordering/ports"
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

// AutoMigrate creates the orders and order_items tables. Called once from
// bootstrap.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderModel{}, &orderItemModel{})
}

func (r *Repository) CreateLineItem(ctx context.Context, item ports.LineItem) (ports.LineItem, error) {
	var exists int64
	if err := r.db.WithContext(ctx).
		Table("products").
		Where("product_id = ?", item.ProductID).
		Count(&exists).
		Error; err != nil {
		return ports.LineItem{}, err
	}
	if exists == 0 {
		return ports.LineItem{}, domainerrors.ErrUnknownProduct
	}

	row := orderItemModel{
		LineItemID: item.LineItemID,
		Quantity:   item.Quantity,
		ProductID:  item.ProductID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.LineItem{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetLineItemPriced(ctx context.Context, lineItemID string) (ports.LineItem, error) {
	var row struct {
		orderItemModel
		ProductName  string  `gorm:"column:product_name"`
		ProductPrice float64 `gorm:"column:product_price"`
	}
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.product_id = order_items.product_id").
		Where("order_items.line_item_id = ?", lineItemID).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LineItem{}, domainerrors.ErrLineItemNotFound
		}
		return ports.LineItem{}, err
	}

	item := row.orderItemModel.toEntity()
	item.Product = &ports.ProductRef{
		ProductID: row.ProductID,
		Name:      row.ProductName,
		Price:     row.ProductPrice,
	}
	return item, nil
}

func (r *Repository) DeleteLineItem(ctx context.Context, lineItemID string) error {
	result := r.db.WithContext(ctx).
		Where("line_item_id = ?", lineItemID).
		Delete(&orderItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrLineItemNotFound
	}
	return nil
}

// CreateOrder persists the order and claims its line items inside one
// transaction, so a failed insert never leaves items pointing at a missing
// order.
func (r *Repository) CreateOrder(ctx context.Context, order ports.Order) (ports.Order, error) {
	row := fromOrderEntity(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(order.ItemIDs) == 0 {
			return nil
		}
		return tx.Model(&orderItemModel{}).
			Where("line_item_id IN ?", order.ItemIDs).
			Update("order_id", order.OrderID).
			Error
	})
	if err != nil {
		return ports.Order{}, err
	}

	created := row.toEntity()
	created.ItemIDs = append([]string(nil), order.ItemIDs...)
	return created, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]ports.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Order("date_ordered DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.Order, 0, len(rows))
	for _, row := range rows {
		order, err := r.populateOrder(ctx, row, false)
		if err != nil {
			return nil, err
		}
		items = append(items, order)
	}
	return items, nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID string) (ports.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Order{}, domainerrors.ErrOrderNotFound
		}
		return ports.Order{}, err
	}
	return r.populateOrder(ctx, row, true)
}

func (r *Repository) ListUserOrders(ctx context.Context, userID string) ([]ports.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_ordered DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.Order, 0, len(rows))
	for _, row := range rows {
		order, err := r.populateOrder(ctx, row, true)
		if err != nil {
			return nil, err
		}
		items = append(items, order)
	}
	return items, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID string, status string) (ports.Order, error) {
	result := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return ports.Order{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	return r.GetOrder(ctx, orderID)
}

func (r *Repository) DeleteOrder(ctx context.Context, orderID string) (ports.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Order{}, domainerrors.ErrOrderNotFound
		}
		return ports.Order{}, err
	}

	itemIDs, err := r.lineItemIDs(ctx, orderID)
	if err != nil {
		return ports.Order{}, err
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&orderModel{}).
		Error; err != nil {
		return ports.Order{}, err
	}

	order := row.toEntity()
	order.ItemIDs = itemIDs
	return order, nil
}

func (r *Repository) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) lineItemIDs(ctx context.Context, orderID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&orderItemModel{}).
		Where("order_id = ?", orderID).
		Order("line_item_id ASC").
		Pluck("line_item_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// populateOrder resolves the placing user's name, and with deep set, the full
// order -> items -> product -> category graph.
func (r *Repository) populateOrder(ctx context.Context, row orderModel, deep bool) (ports.Order, error) {
	order := row.toEntity()

	itemIDs, err := r.lineItemIDs(ctx, row.OrderID)
	if err != nil {
		return ports.Order{}, err
	}
	order.ItemIDs = itemIDs

	var userName string
	err = r.db.WithContext(ctx).
		Table("users").
		Where("user_id = ?", row.UserID).
		Pluck("name", &userName).
		Error
	if err != nil {
		return ports.Order{}, err
	}
	order.UserName = userName

	if !deep {
		return order, nil
	}

	var itemRows []struct {
		orderItemModel
		ProductName  string  `gorm:"column:product_name"`
		ProductPrice float64 `gorm:"column:product_price"`
		CategoryID   string  `gorm:"column:product_category_id"`
		CategoryName string  `gorm:"column:category_name"`
	}
	err = r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, products.name AS product_name, products.price AS product_price, "+
			"products.category_id AS product_category_id, categories.name AS category_name").
		Joins("JOIN products ON products.product_id = order_items.product_id").
		Joins("LEFT JOIN categories ON categories.category_id = products.category_id").
		Where("order_items.order_id = ?", row.OrderID).
		Order("order_items.line_item_id ASC").
		Find(&itemRows).
		Error
	if err != nil {
		return ports.Order{}, err
	}

	order.Items = make([]ports.LineItem, 0, len(itemRows))
	for _, itemRow := range itemRows {
		item := itemRow.orderItemModel.toEntity()
		product := ports.ProductRef{
			ProductID: itemRow.ProductID,
			Name:      itemRow.ProductName,
			Price:     itemRow.ProductPrice,
		}
		if itemRow.CategoryID != "" {
			product.Category = &ports.CategoryRef{
				CategoryID: itemRow.CategoryID,
				Name:       itemRow.CategoryName,
			}
		}
		item.Product = &product
		order.Items = append(order.Items, item)
	}
	return order, nil
}

type orderModel struct {
	OrderID          string    `gorm:"column:order_id;primaryKey"`
	ShippingAddress1 string    `gorm:"column:shipping_address1"`
	ShippingAddress2 string    `gorm:"column:shipping_address2"`
	City             string    `gorm:"column:city"`
	Zip              string    `gorm:"column:zip"`
	Country          string    `gorm:"column:country"`
	Phone            string    `gorm:"column:phone"`
	Status           string    `gorm:"column:status"`
	TotalPrice       float64   `gorm:"column:total_price"`
	UserID           string    `gorm:"column:user_id;index"`
	DateOrdered      time.Time `gorm:"column:date_ordered"`
}

func (orderModel) TableName() string {
	return "orders"
}

func (m orderModel) toEntity() ports.Order {
	return ports.Order{
		OrderID:          m.OrderID,
		ShippingAddress1: m.ShippingAddress1,
		ShippingAddress2: m.ShippingAddress2,
		City:             m.City,
		Zip:              m.Zip,
		Country:          m.Country,
		Phone:            m.Phone,
		Status:           m.Status,
		TotalPrice:       m.TotalPrice,
		UserID:           m.UserID,
		DateOrdered:      m.DateOrdered,
	}
}

func fromOrderEntity(order ports.Order) orderModel {
	return orderModel{
		OrderID:          order.OrderID,
		ShippingAddress1: order.ShippingAddress1,
		ShippingAddress2: order.ShippingAddress2,
		City:             order.City,
		Zip:              order.Zip,
		Country:          order.Country,
		Phone:            order.Phone,
		Status:           order.Status,
		TotalPrice:       order.TotalPrice,
		UserID:           order.UserID,
		DateOrdered:      order.DateOrdered,
	}
}

type orderItemModel struct {
	LineItemID string `gorm:"column:line_item_id;primaryKey"`
	Quantity   int    `gorm:"column:quantity"`
	ProductID  string `gorm:"column:product_id;index"`
	OrderID    string `gorm:"column:order_id;index"`
}

func (orderItemModel) TableName() string {
	return "order_items"
}

func (m orderItemModel) toEntity() ports.LineItem {
	return ports.LineItem{
		LineItemID: m.LineItemID,
		Quantity:   m.Quantity,
		ProductID:  m.ProductID,
	}
}
