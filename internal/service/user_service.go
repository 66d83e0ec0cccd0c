package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validation"
)

const userCacheTTL = 5 * time.Minute

// UpdateUserInput carries a partial user update. Nil fields are left untouched.
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Role        *model.Role
}

// UserService exposes user profile and admin user management operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.User, error)
	ListUsers(ctx context.Context, includeDeleted bool) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	store    *repository.Store
	cache    *cache.Client
	validate *validation.Validator
}

// NewUserService builds a UserService with storage, cache and validation.
func NewUserService(store *repository.Store, cache *cache.Client, validate *validation.Validator) UserService {
	return &userService{store: store, cache: cache, validate: validate}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.User, error) {
	if !includeDeleted {
		if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
			var cached model.User
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	user, err := s.store.Users.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("user", err)
	}

	if !includeDeleted {
		if payload, err := json.Marshal(user); err == nil {
			_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
		}
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, includeDeleted bool) ([]model.User, error) {
	users, err := s.store.Users.List(ctx, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("user", err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.store.Users.FindByID(ctx, id, false)
	if err != nil {
		return nil, apperrors.FromDB("user", err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := s.validate.Struct("user", user); err != nil {
		return nil, err
	}
	if err := s.store.Users.Save(ctx, user); err != nil {
		return nil, apperrors.FromDB("user", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return user, nil
}

// DeleteUser soft-deletes a user and cascades to the user's orders, their
// items and their payments, all within one transaction.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Users.FindByID(ctx, id, false); err != nil {
			return apperrors.FromDB("user", err)
		}

		orderIDs, err := tx.Orders.IDsByUser(ctx, id)
		if err != nil {
			return apperrors.FromDB("order", err)
		}
		if err := tx.OrderItems.SoftDeleteByOrders(ctx, orderIDs); err != nil {
			return apperrors.FromDB("order_item", err)
		}
		if err := tx.Payments.SoftDeleteByOrders(ctx, orderIDs); err != nil {
			return apperrors.FromDB("payment", err)
		}
		if err := tx.Orders.SoftDeleteByUser(ctx, id); err != nil {
			return apperrors.FromDB("order", err)
		}
		if err := tx.Users.SoftDelete(ctx, id); err != nil {
			return apperrors.FromDB("user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}
