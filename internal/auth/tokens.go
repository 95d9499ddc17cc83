package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tedas/villa_api/internal/logging"
	"github.com/tedas/villa_api/internal/models"
	"github.com/tedas/villa_api/internal/repo"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService mints access tokens and owns the refresh-token lifecycle:
// Active -> Consumed on rotation, Active -> Expired on a lapsed refresh
// attempt, Active -> Revoked on logout or detected fraud. Terminal states
// never transition back.
type TokenService struct {
	Store      repo.Store
	Secret     []byte
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is swapped out in tests; nil means time.Now.
	Now func() time.Time
}

var errAlreadyConsumed = errors.New("refresh token already consumed")

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssuePair mints a fresh access/refresh pair for a just-verified user and
// persists the refresh row. This starts a new chain under a new jti.
func (s *TokenService) IssuePair(ctx context.Context, user models.User) (TokenPair, error) {
	jti := NewJTI()

	access, err := s.signAccessToken(user, jti)
	if err != nil {
		return TokenPair{}, err
	}

	secret, err := s.createRefreshToken(ctx, s.Store, user.ID, jti)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: secret}, nil
}

// Refresh exchanges a presented access token + refresh secret for a new
// pair, rotating the refresh row. The presented access token may be expired;
// only its signature is checked. Mismatched claims and replays of consumed
// secrets are treated as fraud, the latter tearing down the whole chain.
func (s *TokenService) Refresh(ctx context.Context, accessToken, refreshSecret string) (TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "token_refresh")

	row, err := s.Store.FindRefreshTokenBySecret(ctx, refreshSecret)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, ErrInvalidGrant
		}
		return TokenPair{}, err
	}

	sub, jti, err := s.decodeAccessToken(accessToken)
	if err != nil {
		return TokenPair{}, ErrMalformedToken
	}

	// A refresh secret presented together with an access token it was not
	// issued with is evidence of theft or tampering.
	if sub != strconv.FormatUint(uint64(row.UserID), 10) || jti != row.JTI {
		if err := s.Store.SetRefreshTokenValidity(ctx, row.ID, false); err != nil {
			return TokenPair{}, err
		}
		l.Warn("refresh_fraud", "reason", "claims_mismatch", "user_id", row.UserID, "jti", row.JTI)
		return TokenPair{}, ErrFraudDetected
	}

	// Replay of a consumed or revoked secret means the legitimate chain may
	// be in an attacker's hands too, so the whole chain goes down.
	if !row.IsValid {
		if err := s.Store.InvalidateChain(ctx, row.UserID, row.JTI); err != nil {
			return TokenPair{}, err
		}
		l.Warn("refresh_fraud", "reason", "replayed_token", "user_id", row.UserID, "jti", row.JTI)
		return TokenPair{}, ErrFraudDetected
	}

	if row.ExpiresAt < s.now().Unix() {
		if err := s.Store.SetRefreshTokenValidity(ctx, row.ID, false); err != nil {
			return TokenPair{}, err
		}
		l.Info("refresh_expired", "user_id", row.UserID, "jti", row.JTI)
		return TokenPair{}, ErrExpired
	}

	user, err := s.Store.FindUserByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, ErrInvalidGrant
		}
		return TokenPair{}, err
	}

	access, err := s.signAccessToken(user, row.JTI)
	if err != nil {
		return TokenPair{}, err
	}

	// Consume-old and insert-new commit together: a failed insert must not
	// leave the old row consumed, and a lost consume race must not mint a
	// second live pair from one secret.
	var newSecret string
	err = s.Store.WithinTransaction(ctx, func(tx repo.Store) error {
		consumed, err := tx.ConsumeRefreshToken(ctx, row.ID)
		if err != nil {
			return err
		}
		if !consumed {
			return errAlreadyConsumed
		}
		newSecret, err = s.createRefreshToken(ctx, tx, row.UserID, row.JTI)
		return err
	})
	if errors.Is(err, errAlreadyConsumed) {
		// A concurrent refresh won the race; this caller is now a replay.
		if err := s.Store.InvalidateChain(ctx, row.UserID, row.JTI); err != nil {
			return TokenPair{}, err
		}
		l.Warn("refresh_fraud", "reason", "concurrent_replay", "user_id", row.UserID, "jti", row.JTI)
		return TokenPair{}, ErrFraudDetected
	}
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: newSecret}, nil
}

// Revoke invalidates the row matching the secret. Unknown or already
// invalid secrets are a no-op; revocation is idempotent.
func (s *TokenService) Revoke(ctx context.Context, refreshSecret string) error {
	row, err := s.Store.FindRefreshTokenBySecret(ctx, refreshSecret)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.Store.SetRefreshTokenValidity(ctx, row.ID, false)
}

// DecodeAccessToken fully validates a bearer token: signature, expiry and
// audience. Used by the HTTP middleware, not by Refresh.
func (s *TokenService) DecodeAccessToken(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	}, jwt.WithAudience(s.Audience))
	if err != nil || !tkn.Valid {
		return nil, ErrMalformedToken
	}
	return &claims, nil
}

func (s *TokenService) signAccessToken(user models.User, jti string) (string, error) {
	now := s.now()
	claims := AccessClaims{
		Name: user.Username,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        jti,
			Audience:  jwt.ClaimStrings{s.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.Secret)
}

func (s *TokenService) createRefreshToken(ctx context.Context, st repo.Store, userID uint, jti string) (string, error) {
	row := models.RefreshToken{
		Token:     NewRefreshSecret(),
		UserID:    userID,
		JTI:       jti,
		IsValid:   true,
		ExpiresAt: s.now().Add(s.RefreshTTL).Unix(),
	}
	if err := st.CreateRefreshToken(ctx, &row); err != nil {
		return "", err
	}
	return row.Token, nil
}

// decodeAccessToken reads sub and jti from a presented access token without
// validating claims: refresh by design happens after the access token has
// expired. The signature is still checked.
func (s *TokenService) decodeAccessToken(raw string) (sub, jti string, err error) {
	var claims AccessClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tkn, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", "", ErrMalformedToken
	}
	return claims.Subject, claims.ID, nil
}
