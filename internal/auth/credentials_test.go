package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyMatchesCaseInsensitive(t *testing.T) {
	svc, db := newTestService(t)
	user := createTestUser(t, db, "Bob")

	v := &CredentialVerifier{Store: svc.Store}
	ctx := context.Background()

	got, err := v.Verify(ctx, "bob", "password")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	got, err = v.Verify(ctx, "BOB", "password")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestVerifyOpaqueFailure(t *testing.T) {
	svc, db := newTestService(t)
	createTestUser(t, db, "bob")

	v := &CredentialVerifier{Store: svc.Store}
	ctx := context.Background()

	// unknown user and wrong password are indistinguishable
	_, errUnknown := v.Verify(ctx, "nobody", "password")
	require.ErrorIs(t, errUnknown, ErrNotAuthenticated)

	_, errWrongPw := v.Verify(ctx, "bob", "wrong-password")
	require.ErrorIs(t, errWrongPw, ErrNotAuthenticated)

	require.Equal(t, errUnknown, errWrongPw)
}
