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

type User struct {
	UserID       string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	IsAdmin      bool
	Street       string
	Apartment    string
	Zip          string
	City         string
	Country      string
	CreatedAt    time.Time
}

type CreateUserInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	IsAdmin   bool
	Street    string
	Apartment string
	Zip       string
	City      string
	Country   string
}

type Repository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, userID string) error
	CountUsers(ctx context.Context) (int64, error)
}

// PasswordHasher is the one-way credential hash used at registration and login.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, encodedHash string) (bool, error)
}

// Claims is the verified identity extracted from an access token.
type Claims struct {
	UserID  string
	IsAdmin bool
}

type TokenIssuer interface {
	Issue(userID string, isAdmin bool) (string, error)
}

// TokenVerifier is consumed by the HTTP access gate on every protected request.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}
