package jwt

import (
	"context"
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gatekeeper-api/internal/blacklist"
	"gatekeeper-api/internal/models"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.User{ID: "user-abc", Username: "alice"}

func newTestService(t *testing.T, access, refresh time.Duration) *JWTService {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return NewJWTServiceWithKeys(priv, pub, "test-issuer", access, refresh, blacklist.NewMemoryStore())
}

func TestGenerateTokenPair(t *testing.T) {
	s := newTestService(t, time.Hour, 24*time.Hour)

	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)
	assert.Equal(t, BearerScheme, pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := s.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", access.Subject)
	assert.Equal(t, "user-abc", access.UserID)
	assert.Equal(t, "alice", access.Username)
	assert.Equal(t, TokenTypeAccess, access.TokenType)

	refresh, err := s.ValidateRefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokenPairsAreDistinct(t *testing.T) {
	s := newTestService(t, time.Hour, 24*time.Hour)

	a, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)
	b, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)

	assert.NotEqual(t, a.AccessToken, b.AccessToken)
	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	s := newTestService(t, time.Hour, 24*time.Hour)
	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)

	_, err = s.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = s.ValidateRefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = s.Blacklist(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := newTestService(t, -time.Minute, -time.Minute)
	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)

	_, err = s.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateRefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestForeignKeyRejected(t *testing.T) {
	issuer := newTestService(t, time.Hour, time.Hour)
	verifier := newTestService(t, time.Hour, time.Hour)

	pair, err := issuer.GenerateTokenPair(testUser)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	s := newTestService(t, time.Hour, time.Hour)

	_, err := s.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Blacklist(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBlacklist(t *testing.T) {
	s := newTestService(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)

	claims, err := s.Blacklist(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", claims.UserID)

	_, err = s.ValidateRefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = s.Blacklist(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// access tokens are stateless and keep working until they expire
	_, err = s.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
}

func TestKeyFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "keys", "private.pem")
	pub := filepath.Join(dir, "keys", "public.pem")

	created, err := EnsureKeyPair(priv, pub)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureKeyPair(priv, pub)
	require.NoError(t, err)
	assert.False(t, created)

	s, err := NewJWTService(priv, pub, "test-issuer", time.Hour, time.Hour, blacklist.NewMemoryStore())
	require.NoError(t, err)

	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)
	_, err = s.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
}

func TestEnsureKeyPairDerivesMissingPublicKey(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")

	_, err := EnsureKeyPair(priv, pub)
	require.NoError(t, err)
	before, err := os.ReadFile(priv)
	require.NoError(t, err)

	s, err := NewJWTService(priv, pub, "test-issuer", time.Hour, time.Hour, blacklist.NewMemoryStore())
	require.NoError(t, err)
	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)

	require.NoError(t, os.Remove(pub))
	created, err := EnsureKeyPair(priv, pub)
	require.NoError(t, err)
	assert.True(t, created)

	after, err := os.ReadFile(priv)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// the rewritten public key must still verify earlier tokens
	data, err := os.ReadFile(pub)
	require.NoError(t, err)
	key, err := jwtlib.ParseEdPublicKeyFromPEM(data)
	require.NoError(t, err)
	verifier := NewJWTServiceWithKeys(s.privateKey, key.(ed25519.PublicKey), "test-issuer", time.Hour, time.Hour, blacklist.NewMemoryStore())
	_, err = verifier.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
}

func TestEnsureKeyPairRejectsOrphanPublicKey(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")

	_, err := EnsureKeyPair(priv, pub)
	require.NoError(t, err)
	require.NoError(t, os.Remove(priv))

	created, err := EnsureKeyPair(priv, pub)
	assert.ErrorIs(t, err, ErrOrphanPublicKey)
	assert.False(t, created)
	_, err = os.Stat(priv)
	assert.True(t, os.IsNotExist(err))
}

func TestMissingKeyFile(t *testing.T) {
	_, err := NewJWTService(filepath.Join(t.TempDir(), "nope.pem"), "nope.pub", "x", time.Hour, time.Hour, blacklist.NewMemoryStore())
	assert.Error(t, err)
}

func TestRefreshRotates(t *testing.T) {
	s := newTestService(t, time.Hour, 24*time.Hour)
	ctx := context.Background()
	resolve := func(_ context.Context, id string) (*models.User, error) {
		u := testUser
		u.ID = id
		return &u, nil
	}

	pair, err := s.GenerateTokenPair(testUser)
	require.NoError(t, err)

	next, u, err := s.Refresh(ctx, pair.RefreshToken, resolve)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", u.ID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the old refresh token is spent
	_, _, err = s.Refresh(ctx, pair.RefreshToken, resolve)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = s.ValidateRefreshToken(ctx, next.RefreshToken)
	assert.NoError(t, err)
}
