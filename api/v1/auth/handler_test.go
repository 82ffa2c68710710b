package auth

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gatekeeper-api/internal/auth"
	"gatekeeper-api/internal/blacklist"
	"gatekeeper-api/internal/jwt"
	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/middleware"
	"gatekeeper-api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	log := logger.NewNop()
	jwtService := jwt.NewJWTServiceWithKeys(priv, pub, "test", time.Hour, 24*time.Hour, blacklist.NewMemoryStore())
	userService := user.NewService(user.NewMemoryRepository(), log, bcrypt.MinCost)
	handler := NewHandler(auth.NewService(userService, jwtService, log), log)

	r := gin.New()
	v1 := r.Group("/api/v1")
	RegisterPublicRoutes(v1, handler)
	protected := v1.Group("/auth")
	protected.Use(middleware.JWTAuthMiddleware(jwtService, userService, log))
	RegisterProtectedRoutes(protected, handler)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func TestSignupAndDuplicate(t *testing.T) {
	r := newTestEngine(t)

	code, body := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", "pw1"))
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User created successfully", body["message"])
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["user_id"])
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])

	code, body = do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", "pw2"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Username already exists", body["error"])
}

func TestSignupDistinctIDs(t *testing.T) {
	r := newTestEngine(t)

	_, a := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", "pw"))
	_, b := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("bob", "pw"))
	assert.NotEqual(t, a["user_id"], b["user_id"])
}

func TestSignupMissingFields(t *testing.T) {
	r := newTestEngine(t)

	for _, body := range []any{
		nil,
		map[string]string{"username": "alice"},
		map[string]string{"password": "pw"},
		credentials("", ""),
	} {
		code, out := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Username and password are required", out["error"])
	}
}

func TestSignupMalformedBody(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r := newTestEngine(t)

	_, signup := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", "pw1"))

	code, body := do(t, r, http.MethodPost, "/api/v1/auth/login", "", credentials("alice", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["error"])

	code, unknown := do(t, r, http.MethodPost, "/api/v1/auth/login", "", credentials("nobody", "pw1"))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, body, unknown)

	code, body = do(t, r, http.MethodPost, "/api/v1/auth/login", "", credentials("alice", "pw1"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, signup["user_id"], body["user_id"])
	assert.NotEqual(t, signup["access_token"], body["access_token"])
	assert.NotEqual(t, signup["refresh_token"], body["refresh_token"])

	code, body = do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Username and password are required", body["error"])
}

func TestLongPasswordSignupAndLogin(t *testing.T) {
	r := newTestEngine(t)
	long := strings.Repeat("p", 73)

	code, signup := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", long))
	require.Equal(t, http.StatusCreated, code, signup)

	code, body := do(t, r, http.MethodPost, "/api/v1/auth/login", "", credentials("alice", long))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, signup["user_id"], body["user_id"])

	code, body = do(t, r, http.MethodPost, "/api/v1/auth/login", "", credentials("alice", long[:72]))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	r := newTestEngine(t)

	_, signup := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", "pw1"))
	access := signup["access_token"].(string)
	refresh := signup["refresh_token"].(string)

	for _, body := range []any{
		nil,
		map[string]string{"refresh_token": "garbage"},
		map[string]string{"refresh_token": refresh},
		map[string]string{"refresh_token": refresh},
	} {
		code, out := do(t, r, http.MethodPost, "/api/v1/auth/logout", access, body)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Logout successful", out["message"])
	}

	// the blacklisted refresh token can no longer be exchanged
	code, out := do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid refresh token", out["error"])
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	r := newTestEngine(t)

	code, out := do(t, r, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refresh_token": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication credentials were not provided", out["error"])
}

func TestRefreshRotation(t *testing.T) {
	r := newTestEngine(t)

	_, signup := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", credentials("alice", "pw1"))

	code, body := do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": signup["refresh_token"].(string)})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Token refreshed", body["message"])
	assert.Equal(t, signup["user_id"], body["user_id"])
	assert.NotEqual(t, signup["refresh_token"], body["refresh_token"])

	code, _ = do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": signup["refresh_token"].(string)})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProfile(t *testing.T) {
	r := newTestEngine(t)

	_, signup := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "pw1",
		"email":    "alice@example.com",
	})

	code, body := do(t, r, http.MethodGet, "/api/v1/auth/profile", signup["access_token"].(string), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, signup["user_id"], body["user_id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, true, body["is_authenticated"])

	code, body = do(t, r, http.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotContains(t, body, "user_id")

	code, _ = do(t, r, http.MethodGet, "/api/v1/auth/profile", signup["refresh_token"].(string), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
