package user

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) FindByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// EnsureUser creates a row for an identity seen for the first time so
// that bill and bucket foreign keys resolve.
func (s *Service) EnsureUser(ctx context.Context, userID string) error {
	_, err := s.repo.FindByID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	return s.repo.UpsertUser(ctx, &User{ID: userID, Name: userID})
}
