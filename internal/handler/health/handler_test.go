package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ideabox-api/internal/repository"
)

func ready(t *testing.T, checks ...Check) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(checks...).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestReadiness(t *testing.T) {
	up := repository.PingFunc(func(context.Context) error { return nil })
	down := repository.PingFunc(func(context.Context) error { return errors.New("connection refused") })

	code, body := ready(t, Check{Name: "database", Pinger: up}, Check{Name: "redis", Pinger: up})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])

	code, body = ready(t, Check{Name: "database", Pinger: up}, Check{Name: "redis", Pinger: down})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "DOWN", body["status"])
	assert.Equal(t, map[string]interface{}{"database": "UP", "redis": "DOWN"}, body["checks"])
	assert.NotContains(t, body, "connection refused")
}
