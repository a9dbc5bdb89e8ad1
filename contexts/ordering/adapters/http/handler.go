package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"eshop/contexts/ordering/application"
	"eshop/contexts/ordering/ports"
	httptransport "eshop/contexts/ordering/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) PlaceOrderHandler(ctx context.Context, userID string, req httptransport.PlaceOrderRequest) (httptransport.OrderResponse, error) {
	items := make([]application.OrderItemInput, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, application.OrderItemInput{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.Service.PlaceOrder(ctx, userID, application.PlaceOrderInput{
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		Items:            items,
	})
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Status: "success", Data: toOrderDTO(order)}, nil
}

func (h Handler) ListOrdersHandler(ctx context.Context) (httptransport.ListOrdersResponse, error) {
	orders, err := h.Service.ListOrders(ctx)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	return toListResponse(orders), nil
}

func (h Handler) GetOrderHandler(ctx context.Context, orderID string) (httptransport.OrderResponse, error) {
	order, err := h.Service.GetOrder(ctx, orderID)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Status: "success", Data: toOrderDTO(order)}, nil
}

func (h Handler) ListUserOrdersHandler(ctx context.Context, userID string) (httptransport.ListOrdersResponse, error) {
	orders, err := h.Service.ListUserOrders(ctx, userID)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	return toListResponse(orders), nil
}

func (h Handler) UpdateStatusHandler(ctx context.Context, orderID string, req httptransport.UpdateOrderStatusRequest) (httptransport.OrderResponse, error) {
	order, err := h.Service.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Status: "success", Data: toOrderDTO(order)}, nil
}

func (h Handler) DeleteOrderHandler(ctx context.Context, orderID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteOrder(ctx, orderID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true, Message: "order is deleted"}, nil
}

func (h Handler) TotalSalesHandler(ctx context.Context) (httptransport.TotalSalesResponse, error) {
	total, err := h.Service.TotalSales(ctx)
	if err != nil {
		return httptransport.TotalSalesResponse{}, err
	}
	return httptransport.TotalSalesResponse{TotalSales: total}, nil
}

func (h Handler) CountOrdersHandler(ctx context.Context) (httptransport.CountOrdersResponse, error) {
	count, err := h.Service.CountOrders(ctx)
	if err != nil {
		return httptransport.CountOrdersResponse{}, err
	}
	return httptransport.CountOrdersResponse{OrderCount: count}, nil
}

func toListResponse(orders []ports.Order) httptransport.ListOrdersResponse {
	resp := httptransport.ListOrdersResponse{Status: "success", Data: make([]httptransport.OrderDTO, 0, len(orders))}
	for _, order := range orders {
		resp.Data = append(resp.Data, toOrderDTO(order))
	}
	return resp
}

func toOrderDTO(order ports.Order) httptransport.OrderDTO {
	dto := httptransport.OrderDTO{
		OrderID:          order.OrderID,
		OrderItemIDs:     order.ItemIDs,
		ShippingAddress1: order.ShippingAddress1,
		ShippingAddress2: order.ShippingAddress2,
		City:             order.City,
		Zip:              order.Zip,
		Country:          order.Country,
		Phone:            order.Phone,
		Status:           order.Status,
		TotalPrice:       order.TotalPrice,
		UserID:           order.UserID,
		UserName:         order.UserName,
		DateOrdered:      order.DateOrdered.UTC().Format(time.RFC3339),
	}
	if dto.OrderItemIDs == nil {
		dto.OrderItemIDs = []string{}
	}
	for _, item := range order.Items {
		itemDTO := httptransport.OrderItemDTO{
			LineItemID: item.LineItemID,
			Quantity:   item.Quantity,
			ProductID:  item.ProductID,
		}
		if item.Product != nil {
			product := httptransport.ProductRefDTO{
				ProductID: item.Product.ProductID,
				Name:      item.Product.Name,
				Price:     item.Product.Price,
			}
			if item.Product.Category != nil {
				product.Category = &httptransport.CategoryRefDTO{
					CategoryID: item.Product.Category.CategoryID,
					Name:       item.Product.Category.Name,
				}
			}
			itemDTO.Product = &product
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	return dto
}
