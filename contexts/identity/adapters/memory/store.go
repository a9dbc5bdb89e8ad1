package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "eshop/contexts/identity/domain/errors"
	"eshop/contexts/identity/ports"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]ports.User
	byEmail  map[string]string
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]ports.User),
		byEmail: make(map[string]string),
	}
}

func (s *Store) CreateUser(_ context.Context, user ports.User) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return ports.User{}, domainerrors.ErrEmailTaken
	}
	s.users[user.UserID] = user
	s.byEmail[user.Email] = user.UserID
	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListUsers(_ context.Context) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.User, 0, len(s.users))
	for _, user := range s.users {
		items = append(items, user)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UserID < items[j].UserID })
	return items, nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	delete(s.users, userID)
	delete(s.byEmail, user.Email)
	return nil
}

func (s *Store) CountUsers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("user_%04d", atomic.AddUint64(&s.sequence, 1)), nil
}
