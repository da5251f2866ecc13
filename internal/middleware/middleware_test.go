package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository/memory"
	authsvc "github.com/jwalitptl/ideabox-api/internal/service/auth"
	"github.com/jwalitptl/ideabox-api/internal/testutil"
	"github.com/jwalitptl/ideabox-api/pkg/auth"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type authFixture struct {
	router *gin.Engine
	tokens map[model.Role]string
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	svc := authsvc.NewService(store.Principals, memory.NewRevocationStore(), auth.NewJWTService("secret", time.Hour), hasher, time.Minute, logger.Nop())

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	tokens := map[model.Role]string{}
	for _, role := range []model.Role{model.RoleAdmin, model.RoleReviewer} {
		number := string(role) + "-1"
		testutil.SeedPrincipal(ctx, store.Principals, model.Principal{
			EmployeeNumber: number, Email: number + "@x.com", Role: role, PasswordHash: hash,
		})
		resp, err := svc.Login(ctx, model.LoginRequest{EmployeeNumber: number, Password: "password123"})
		require.NoError(t, err)
		tokens[role] = resp.Token
	}

	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	r := gin.New()
	r.Use(ErrorHandler())
	api := r.Group("/api/v1")
	api.Use(NewAuthMiddleware(svc).Authenticate(), Authorize(enforcer))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	api.GET("/ideas", ok)
	api.DELETE("/ideas/:id", ok)
	api.GET("/employees/:id", ok)
	api.GET("/employees/bulk-delete-template", ok)
	api.GET("/reviewers", ok)
	api.POST("/users/bulk-upsert", ok)

	return &authFixture{router: r, tokens: tokens}
}

func (f *authFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodGet, "/api/v1/ideas", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Access token required", resp.Error.Message)

	w = f.do(http.MethodGet, "/api/v1/ideas", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizeByRole(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		role   model.Role
		method string
		path   string
		want   int
	}{
		{model.RoleReviewer, http.MethodGet, "/api/v1/ideas", http.StatusOK},
		{model.RoleReviewer, http.MethodGet, "/api/v1/employees/abc", http.StatusOK},
		{model.RoleReviewer, http.MethodGet, "/api/v1/employees/bulk-delete-template", http.StatusForbidden},
		{model.RoleReviewer, http.MethodDelete, "/api/v1/ideas/abc", http.StatusForbidden},
		{model.RoleReviewer, http.MethodGet, "/api/v1/reviewers", http.StatusForbidden},
		{model.RoleReviewer, http.MethodPost, "/api/v1/users/bulk-upsert", http.StatusForbidden},
		{model.RoleAdmin, http.MethodGet, "/api/v1/reviewers", http.StatusOK},
		{model.RoleAdmin, http.MethodDelete, "/api/v1/ideas/abc", http.StatusOK},
		{model.RoleAdmin, http.MethodGet, "/api/v1/employees/bulk-delete-template", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" "+tt.method+" "+tt.path, func(t *testing.T) {
			w := f.do(tt.method, tt.path, f.tokens[tt.role])
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestEnforcerEmployeePolicies(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		obj, act string
		want     bool
	}{
		{"/api/v1/ideas", "POST", true},
		{"/api/v1/ideas/:id/status", "PATCH", true},
		{"/api/v1/ideas/:id", "DELETE", false},
		{"/api/v1/employees", "POST", false},
		{"/api/v1/employees/export/excel", "GET", true},
		{"/api/v1/users", "GET", true},
		{"/api/v1/users/:id", "PUT", false},
	}
	for _, tt := range tests {
		allowed, err := e.Enforce("employee", tt.obj, tt.act)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s", tt.act, tt.obj)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(SizeLimit(SizeLimitConfig{MaxBodySize: 10, MaxUploadSize: 100}))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 50)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 50)))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(HeaderXRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(HeaderXRequestID))
	resp := decode(t, w)
	assert.Equal(t, "req-42", resp.Error.TraceID)
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req model.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.RespondWithError(c, httputil.BindError(err))
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, post(`{"status":"approved","priority":"high"}`).Code)

	w := post(`{"status":"shipped"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"status must be a valid idea status"}, decode(t, w).Error.Details)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig("https://ideas.example.com")))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://ideas.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "https://ideas.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://ideas.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecurityHeadersHSTSOnlyOverHTTPS(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(DefaultSecurityConfig()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}

func TestTimeoutUsesUploadDeadlineForMultipart(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(TimeoutConfig{Duration: time.Second, UploadDuration: time.Hour}))
	var remaining time.Duration
	r.POST("/x", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		remaining = time.Until(deadline)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.LessOrEqual(t, remaining, time.Second)

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Greater(t, remaining, time.Minute)
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderXRequestID, "has space")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "has space", w.Header().Get(HeaderXRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
}
