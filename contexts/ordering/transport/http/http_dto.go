package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CategoryRefDTO struct {
	CategoryID string `json:"id"`
	Name       string `json:"name"`
}

type ProductRefDTO struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     float64         `json:"price"`
	Category  *CategoryRefDTO `json:"category,omitempty"`
}

type OrderItemDTO struct {
	LineItemID string         `json:"id"`
	Quantity   int            `json:"quantity"`
	ProductID  string         `json:"productId"`
	Product    *ProductRefDTO `json:"product,omitempty"`
}

type OrderDTO struct {
	OrderID          string         `json:"id"`
	OrderItemIDs     []string       `json:"orderItems"`
	Items            []OrderItemDTO `json:"items,omitempty"`
	ShippingAddress1 string         `json:"shippingAddress1"`
	ShippingAddress2 string         `json:"shippingAddress2,omitempty"`
	City             string         `json:"city"`
	Zip              string         `json:"zip"`
	Country          string         `json:"country"`
	Phone            string         `json:"phone"`
	Status           string         `json:"status"`
	TotalPrice       float64        `json:"totalPrice"`
	UserID           string         `json:"user"`
	UserName         string         `json:"userName,omitempty"`
	DateOrdered      string         `json:"dateOrdered"`
}

type OrderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	OrderItems       []OrderItemRequest `json:"orderItems"`
	ShippingAddress1 string             `json:"shippingAddress1"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country"`
	Phone            string             `json:"phone"`
	Status           string             `json:"status"`
}

type OrderResponse struct {
	Status string   `json:"status"`
	Data   OrderDTO `json:"data"`
}

type ListOrdersResponse struct {
	Status string     `json:"status"`
	Data   []OrderDTO `json:"data"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type TotalSalesResponse struct {
	TotalSales float64 `json:"totalSales"`
}

type CountOrdersResponse struct {
	OrderCount int64 `json:"orderCount"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
