package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"eshop/contexts/identity/application"
	"eshop/contexts/identity/ports"
	httptransport "eshop/contexts/identity/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.UserResponse, error) {
	user, err := h.Service.Register(ctx, ports.CreateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		IsAdmin:   req.IsAdmin,
		Street:    req.Street,
		Apartment: req.Apartment,
		Zip:       req.Zip,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{Status: "success", Data: toUserDTO(user)}, nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	result, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{User: result.Email, Token: result.Token}, nil
}

func (h Handler) ListUsersHandler(ctx context.Context) (httptransport.ListUsersResponse, error) {
	users, err := h.Service.ListUsers(ctx)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	resp := httptransport.ListUsersResponse{Status: "success", Data: make([]httptransport.UserDTO, 0, len(users))}
	for _, user := range users {
		resp.Data = append(resp.Data, toUserDTO(user))
	}
	return resp, nil
}

func (h Handler) GetUserHandler(ctx context.Context, userID string) (httptransport.UserResponse, error) {
	user, err := h.Service.GetUser(ctx, userID)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{Status: "success", Data: toUserDTO(user)}, nil
}

func (h Handler) DeleteUserHandler(ctx context.Context, userID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteUser(ctx, userID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Success: true, Message: "user is deleted"}, nil
}

func (h Handler) CountUsersHandler(ctx context.Context) (httptransport.CountUsersResponse, error) {
	count, err := h.Service.CountUsers(ctx)
	if err != nil {
		return httptransport.CountUsersResponse{}, err
	}
	return httptransport.CountUsersResponse{UserCount: count}, nil
}

func toUserDTO(user ports.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		IsAdmin:   user.IsAdmin,
		Street:    user.Street,
		Apartment: user.Apartment,
		Zip:       user.Zip,
		City:      user.City,
		Country:   user.Country,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
