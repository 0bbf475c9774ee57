package user

import "context"

type Repository interface {
	FindByID(ctx context.Context, userID string) (*User, error)
	UpsertUser(ctx context.Context, user *User) error
}
