package auth

import (
	"context"
	"errors"

	"github.com/tedas/villa_api/internal/hash"
	"github.com/tedas/villa_api/internal/models"
	"github.com/tedas/villa_api/internal/repo"
)

// CredentialVerifier checks a username/password pair against the user store.
// Read-only; it never distinguishes "no such user" from "wrong password".
type CredentialVerifier struct {
	Store repo.Store
}

func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (models.User, error) {
	user, err := v.Store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, ErrNotAuthenticated
		}
		return models.User{}, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrNotAuthenticated
	}

	return user, nil
}
