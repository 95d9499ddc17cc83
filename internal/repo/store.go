// Package repo is the persisted record store behind the auth subsystem.
// The token lifecycle code talks to the Store interface only, so tests can
// run it against an in-memory sqlite database.
package repo

import (
	"context"
	"errors"

	"github.com/tedas/villa_api/internal/models"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, id uint) (models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	FindRefreshTokenBySecret(ctx context.Context, secret string) (models.RefreshToken, error)
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// SetRefreshTokenValidity flips the validity flag unconditionally.
	SetRefreshTokenValidity(ctx context.Context, id uint, valid bool) error

	// ConsumeRefreshToken invalidates a row only if it is still valid and
	// reports whether this call was the one that flipped it. Two concurrent
	// consumers of the same row see exactly one true.
	ConsumeRefreshToken(ctx context.Context, id uint) (bool, error)

	// InvalidateChain tears down every refresh token descending from one
	// login, i.e. all rows sharing (user, jti).
	InvalidateChain(ctx context.Context, userID uint, jti string) error

	// WithinTransaction runs fn against a transactional view of the store.
	// Any error from fn rolls the whole unit back.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}
