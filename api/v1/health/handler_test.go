package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatekeeper-api/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, checks map[string]Check) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterPublicRoutes(r.Group("/api/v1"), NewHandler(checks, time.Second, logger.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func ok(context.Context) error { return nil }

func TestHealthOK(t *testing.T) {
	code, resp := serve(t, map[string]Check{"database": ok, "redis": ok})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, resp.Checks)
}

func TestHealthNoChecks(t *testing.T) {
	code, resp := serve(t, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestHealthFailingCheck(t *testing.T) {
	code, resp := serve(t, map[string]Check{
		"database": ok,
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
	assert.Equal(t, "unavailable", resp.Checks["redis"])
}
