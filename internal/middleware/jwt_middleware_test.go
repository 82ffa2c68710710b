package middleware

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatekeeper-api/internal/blacklist"
	"gatekeeper-api/internal/jwt"
	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"
	"gatekeeper-api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	engine *gin.Engine
	jwt    *jwt.JWTService
	alice  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	jwtService := jwt.NewJWTServiceWithKeys(priv, pub, "test", time.Hour, time.Hour, blacklist.NewMemoryStore())

	log := logger.NewNop()
	userService := user.NewService(user.NewMemoryRepository(), log, bcrypt.MinCost)
	alice, err := userService.CreateUser(context.Background(), "alice", "pw1", "alice@example.com")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(jwtService, userService, log), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": u.ID})
	})

	return &fixture{engine: r, jwt: jwtService, alice: alice}
}

func (f *fixture) get(authorization string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestMiddlewareAcceptsAccessToken(t *testing.T) {
	f := newFixture(t)
	pair, err := f.jwt.GenerateTokenPair(*f.alice)
	require.NoError(t, err)

	w, body := f.get("Bearer " + pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, f.alice.ID, body["user_id"])
}

func TestMiddlewareMissingCredentials(t *testing.T) {
	f := newFixture(t)

	w, body := f.get("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication credentials were not provided", body["error"])
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	pair, err := f.jwt.GenerateTokenPair(*f.alice)
	require.NoError(t, err)
	ghost, err := f.jwt.GenerateTokenPair(models.User{ID: "user-ghost", Username: "ghost"})
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":        "Bearer not-a-token",
		"wrong scheme":   "Basic " + pair.AccessToken,
		"refresh token":  "Bearer " + pair.RefreshToken,
		"unknown user":   "Bearer " + ghost.AccessToken,
		"no token value": "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w, body := f.get(header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Invalid or expired token", body["error"])
		})
	}
}
