package user

import (
	"context"
	"fmt"
	"strings"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*User, error)
	// Authenticate returns (nil, nil) for both an unknown email and a wrong
	// password, so callers cannot tell which check failed.
	Authenticate(ctx context.Context, email, password string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindWithRecentPurchases(ctx context.Context, id uint) (*UserWithPurchases, error)
	Update(ctx context.Context, id uint, firstName, lastName string) (*User, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{repo: repo, hasher: hasher}
}

func (s *service) Register(ctx context.Context, firstName, lastName, email, password string) (*User, error) {
	log := logger.FromCtx(ctx)

	for name, v := range map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, firstName, lastName, email, hashed)
	if err != nil {
		if err != ErrEmailExists {
			log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}

	log.Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("email", email),
	)

	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil
	}

	return u, nil
}

func (s *service) FindByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *service) FindAll(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) FindWithRecentPurchases(ctx context.Context, id uint) (*UserWithPurchases, error) {
	return s.repo.FindWithRecentPurchases(ctx, id)
}

func (s *service) Update(ctx context.Context, id uint, firstName, lastName string) (*User, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("%w: firstName, lastName", ErrMissingField)
	}
	return s.repo.Update(ctx, id, firstName, lastName)
}

func (s *service) Delete(ctx context.Context, id uint) (bool, error) {
	return s.repo.Delete(ctx, id)
}
