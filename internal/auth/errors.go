package auth

import "errors"

var (
	// ErrNotAuthenticated covers both unknown username and wrong password,
	// so callers cannot probe which usernames exist.
	ErrNotAuthenticated = errors.New("invalid username or password")

	ErrInvalidGrant   = errors.New("refresh token not found")
	ErrMalformedToken = errors.New("cannot parse access token")
	ErrExpired        = errors.New("refresh token expired")
	ErrFraudDetected  = errors.New("refresh token fraud detected")
)

// IsRefreshFailure reports whether err is one of the refresh outcomes that
// must be surfaced to the client as a uniform failure. The distinction
// between them is for server-side logs only.
func IsRefreshFailure(err error) bool {
	return errors.Is(err, ErrInvalidGrant) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrFraudDetected)
}
