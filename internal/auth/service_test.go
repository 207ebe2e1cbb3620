package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivomercado/backend/internal/listings"
	"github.com/vivomercado/backend/internal/users"
	pkgauth "github.com/vivomercado/backend/pkg/auth"
	"github.com/vivomercado/backend/pkg/auth/session"
	"github.com/vivomercado/backend/pkg/config"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		Issuer:                 "vivomercado-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'member',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT users_email_key UNIQUE (email)
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

type stubSessionManager struct {
	sessions map[string]string
	next     int
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.next++
	token := fmt.Sprintf("refresh-%d", s.next)
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newID := session.NewAccessID()
	token, _ := s.Generate(ctx, newID)
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	return nil
}

func registerUser(t *testing.T, conn *gorm.DB, email, password string) users.Profile {
	t.Helper()

	repo := users.NewRepository(conn)
	usersSvc, err := users.NewService(repo, gormTxRunnerForTest{db: conn}, users.NewListingDeactivator(listings.NewRepository(conn)), nil, testPasswordConfig())
	require.NoError(t, err)

	profile, err := usersSvc.Register(context.Background(), users.RegisterInput{
		Name:     "Alice",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return *profile
}

type gormTxRunnerForTest struct {
	db *gorm.DB
}

func (r gormTxRunnerForTest) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestServiceLoginRoundTrip(t *testing.T) {
	conn := setupAuthTestDB(t)
	sessions := newStubSessionManager()
	svc, err := NewService(users.NewRepository(conn), sessions, testJWTConfig())
	require.NoError(t, err)
	ctx := context.Background()

	registerUser(t, conn, "alice@example.com", "correct horse")

	pair, err := svc.Login(ctx, LoginInput{Email: "Alice@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*60, pair.ExpiresIn)
	require.NotNil(t, pair.User.LastLoginAt)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, claims.UserID)
	assert.Contains(t, sessions.sessions, claims.ID)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.NotContains(t, sessions.sessions, claims.ID)
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, err := NewService(users.NewRepository(conn), newStubSessionManager(), testJWTConfig())
	require.NoError(t, err)
	ctx := context.Background()

	registerUser(t, conn, "alice@example.com", "correct horse")

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, err := NewService(users.NewRepository(conn), newStubSessionManager(), testJWTConfig())
	require.NoError(t, err)
	ctx := context.Background()

	profile := registerUser(t, conn, "alice@example.com", "correct horse")
	require.NoError(t, conn.Exec("UPDATE users SET is_active = 0 WHERE id = ?", profile.ID).Error)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	conn := setupAuthTestDB(t)
	sessions := newStubSessionManager()
	svc, err := NewService(users.NewRepository(conn), sessions, testJWTConfig())
	require.NoError(t, err)
	ctx := context.Background()

	registerUser(t, conn, "alice@example.com", "correct horse")
	pair, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, RefreshInput{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, next.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the old pair is spent
	_, err = svc.Refresh(ctx, RefreshInput{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
