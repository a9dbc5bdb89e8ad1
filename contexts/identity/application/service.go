package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainerrors "eshop/contexts/identity/domain/errors"
	"eshop/contexts/identity/ports"
)

type Service struct {
	Repo   ports.Repository
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

type LoginResult struct {
	Email string
	Token string
}

// Register creates a user account from self-service signup. The stored
// credential is the argon2id hash, never the raw password.
func (s Service) Register(ctx context.Context, input ports.CreateUserInput) (ports.User, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.Password == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return ports.User{}, err
	}

	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return ports.User{}, err
	}

	user, err := s.Repo.CreateUser(ctx, ports.User{
		UserID:       id,
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Phone:        input.Phone,
		IsAdmin:      input.IsAdmin,
		Street:       input.Street,
		Apartment:    input.Apartment,
		Zip:          input.Zip,
		City:         input.City,
		Country:      input.Country,
		CreatedAt:    s.Clock.Now(),
	})
	if err != nil {
		return ports.User{}, err
	}

	s.logger().Info("user registered",
		"event", "user_registered",
		"module", "contexts/identity",
		"layer", "application",
		"user_id", user.UserID,
		"is_admin", user.IsAdmin,
	)
	return user, nil
}

// Login verifies the presented password against the stored hash and issues
// a signed access token carrying {userId, isAdmin}.
func (s Service) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, domainerrors.ErrInvalidRequest
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := s.Hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		if err != nil && !errors.Is(err, domainerrors.ErrInvalidCredentials) {
			s.logger().Warn("password verify failed",
				"event", "login_verify_failed",
				"module", "contexts/identity",
				"layer", "application",
				"user_id", user.UserID,
				"error", err.Error(),
			)
		}
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.UserID, user.IsAdmin)
	if err != nil {
		return LoginResult{}, err
	}

	s.logger().Info("user logged in",
		"event", "user_login",
		"module", "contexts/identity",
		"layer", "application",
		"user_id", user.UserID,
	)
	return LoginResult{Email: user.Email, Token: token}, nil
}

func (s Service) ListUsers(ctx context.Context) ([]ports.User, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s Service) GetUser(ctx context.Context, userID string) (ports.User, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return ports.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s Service) DeleteUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Repo.DeleteUser(ctx, userID)
}

func (s Service) CountUsers(ctx context.Context) (int64, error) {
	return s.Repo.CountUsers(ctx)
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
