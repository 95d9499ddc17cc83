package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	coreauth "github.com/tedas/villa_api/internal/auth"
	"github.com/tedas/villa_api/internal/models"
	"github.com/tedas/villa_api/internal/repo"
)

func newTestTokens(t *testing.T) (*coreauth.TokenService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &coreauth.TokenService{
		Store:      repo.NewGormStore(db),
		Secret:     []byte("test-signing-secret"),
		Audience:   "tedas.com",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, db
}

func issueFor(t *testing.T, tokens *coreauth.TokenService, db *gorm.DB, role string) string {
	t.Helper()
	user := models.User{Username: "bob_" + role, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	pair, err := tokens.IssuePair(context.Background(), user)
	require.NoError(t, err)
	return pair.AccessToken
}

func callWith(t *testing.T, mw echo.MiddlewareFunc, authHeader string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return mw(next)(c)
}

func TestRequireLogin(t *testing.T) {
	tokens, db := newTestTokens(t)
	mw := RequireLogin(tokens)

	access := issueFor(t, tokens, db, "user")
	require.NoError(t, callWith(t, mw, "Bearer "+access))

	err := callWith(t, mw, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)

	err = callWith(t, mw, "Bearer not.a.jwt")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLoginRejectsExpired(t *testing.T) {
	tokens, db := newTestTokens(t)
	mw := RequireLogin(tokens)

	past := time.Now().Add(-time.Hour)
	tokens.Now = func() time.Time { return past }
	access := issueFor(t, tokens, db, "user")
	tokens.Now = nil

	err := callWith(t, mw, "Bearer "+access)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminOnly(t *testing.T) {
	tokens, db := newTestTokens(t)
	mw := AdminOnly(tokens)

	admin := issueFor(t, tokens, db, "admin")
	require.NoError(t, callWith(t, mw, "Bearer "+admin))

	user := issueFor(t, tokens, db, "user")
	err := callWith(t, mw, "Bearer "+user)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}
