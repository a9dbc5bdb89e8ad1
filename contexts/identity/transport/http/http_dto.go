package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserDTO never carries the password hash.
type UserDTO struct {
	UserID    string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Zip       string `json:"zip,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type UserResponse struct {
	Status string  `json:"status"`
	Data   UserDTO `json:"data"`
}

type ListUsersResponse struct {
	Status string    `json:"status"`
	Data   []UserDTO `json:"data"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

type CountUsersResponse struct {
	UserCount int64 `json:"userCount"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
