package jsonstore

import (
	"context"
	"strings"
	"time"

	"ecomStore/domain"
)

type UserRepository struct {
	users *Collection[domain.User]
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{
		users: NewCollection[domain.User](store, "users"),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.users.Create(ctx, *user)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	user, ok, err := r.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, ok, err := r.users.FindOne(ctx, func(u domain.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return user, nil
}

func (r *UserRepository) UpdateEmailVerification(ctx context.Context, id string, isVerified bool) error {
	_, ok, err := r.users.Update(ctx, id, func(u *domain.User) error {
		u.IsVerified = isVerified
		u.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}

	return nil
}
