package service

import (
	"errors"
	"log/slog"

	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/repository"
)

// UserStore is the persistence surface the admin user service needs.
type UserStore interface {
	GetUserByEmail(email string) (*model.User, error)
	ListUsers() ([]*model.User, error)
	UpdateUserRole(id string, role model.Role) error
	MarkUserFraud(id string) (string, error)
}

type UserService struct {
	store UserStore
	cache TicketCache
}

func NewUserService(store UserStore, cache TicketCache) *UserService {
	return &UserService{store: store, cache: cache}
}

// GetByEmail returns one account without its password hash.
func (s *UserService) GetByEmail(email string) (*model.User, error) {
	u, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Password = ""
	return u, nil
}

// List returns every account for the admin dashboard.
func (s *UserService) List() ([]*model.User, error) {
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// MakeAdmin promotes an account to admin.
func (s *UserService) MakeAdmin(id string) error {
	return s.setRole(id, model.RoleAdmin)
}

// MakeVendor promotes an account to vendor.
func (s *UserService) MakeVendor(id string) error {
	return s.setRole(id, model.RoleVendor)
}

func (s *UserService) setRole(id string, role model.Role) error {
	if err := s.store.UpdateUserRole(id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MarkFraud flags an account as fraudulent; every listing of that
// vendor is pulled in the same transaction, so the list caches go
// stale and are dropped here.
func (s *UserService) MarkFraud(id string) error {
	email, err := s.store.MarkUserFraud(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.cache.DeleteTicketLists(); err != nil {
		slog.Warn("list cache invalidation failed after fraud flag", "vendor", email, "error", err)
	}
	return nil
}
