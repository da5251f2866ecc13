package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/ideabox-api/internal/email"
	authHandler "github.com/jwalitptl/ideabox-api/internal/handler/auth"
	employeeHandler "github.com/jwalitptl/ideabox-api/internal/handler/employee"
	healthHandler "github.com/jwalitptl/ideabox-api/internal/handler/health"
	ideaHandler "github.com/jwalitptl/ideabox-api/internal/handler/idea"
	promHandler "github.com/jwalitptl/ideabox-api/internal/handler/prometheus"
	reviewerHandler "github.com/jwalitptl/ideabox-api/internal/handler/reviewer"
	userHandler "github.com/jwalitptl/ideabox-api/internal/handler/user"
	"github.com/jwalitptl/ideabox-api/internal/middleware"
	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository/memory"
	authService "github.com/jwalitptl/ideabox-api/internal/service/auth"
	employeeService "github.com/jwalitptl/ideabox-api/internal/service/employee"
	ideaService "github.com/jwalitptl/ideabox-api/internal/service/idea"
	notificationService "github.com/jwalitptl/ideabox-api/internal/service/notification"
	reviewerService "github.com/jwalitptl/ideabox-api/internal/service/reviewer"
	userService "github.com/jwalitptl/ideabox-api/internal/service/user"
	"github.com/jwalitptl/ideabox-api/internal/testutil"
	"github.com/jwalitptl/ideabox-api/pkg/auth"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
	"github.com/jwalitptl/ideabox-api/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

type apiFixture struct {
	t      *testing.T
	engine *gin.Engine
	sms    *testutil.RecordingSender
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	testutil.SeedPrincipal(ctx, store.Principals, model.Principal{
		EmployeeNumber: "ADMIN001", Name: "Admin", Email: "admin@example.com",
		Role: model.RoleAdmin, Department: "admin", MobileNumber: "+919000000001", PasswordHash: hash,
	})
	testutil.SeedPrincipal(ctx, store.Principals, model.Principal{
		EmployeeNumber: "reviewer001", Name: "Reviewer", Email: "reviewer@example.com",
		Role: model.RoleReviewer, Department: "quality", MobileNumber: "+919000000002", PasswordHash: hash,
	})

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics("ideabox", registry)
	log := logger.Nop()
	sender := &testutil.RecordingSender{}

	var mailer email.Service
	notifier := notificationService.NewService(store.Principals, store.Notifications, sender, mailer, m, log)
	authSvc := authService.NewService(store.Principals, memory.NewRevocationStore(),
		auth.NewJWTService("secret", time.Hour), hasher, time.Minute, log)
	employeeSvc := employeeService.NewService(store.Principals, hasher, m, log)

	enforcer, err := middleware.NewEnforcer()
	require.NoError(t, err)

	r := NewRouter(middleware.NewAuthMiddleware(authSvc), enforcer, Handlers{
		Auth:     authHandler.NewHandler(authSvc),
		Idea:     ideaHandler.NewHandler(ideaService.NewService(store.Ideas, notifier, m, log), notifier),
		Employee: employeeHandler.NewHandler(employeeSvc, t.TempDir()),
		Reviewer: reviewerHandler.NewHandler(reviewerService.NewService(store.Principals, hasher, log)),
		User:     userHandler.NewHandler(userService.NewService(store.Principals, employeeSvc, log)),
		Health:   healthHandler.NewHandler(healthHandler.Check{Name: "database", Pinger: store.Pinger}),
		Metrics:  promHandler.New(registry, "ideabox"),
	}, RouterConfig{
		CORSConfig: middleware.DefaultCORSConfig(),
		Timeout:    5 * time.Second,
		SizeLimit:  middleware.DefaultSizeLimitConfig(),
	})
	r.Setup()

	return &apiFixture{t: t, engine: r.Engine(), sms: sender}
}

func (f *apiFixture) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, httputil.Response) {
	f.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var resp httputil.Response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// into re-decodes resp.Data into out.
func into(t *testing.T, resp httputil.Response, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func (f *apiFixture) login(employeeNumber string) string {
	f.t.Helper()
	w, resp := f.do(http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		EmployeeNumber: employeeNumber, Password: "password123",
	})
	require.Equal(f.t, http.StatusOK, w.Code, w.Body.String())
	var login model.LoginResponse
	into(f.t, resp, &login)
	require.NotEmpty(f.t, login.Token)
	return login.Token
}

func TestIdeaReviewFlow(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.login("ADMIN001")
	reviewerToken := f.login("reviewer001")

	w, resp := f.do(http.MethodPost, "/api/v1/ideas", reviewerToken, model.SubmitIdeaRequest{
		Title:       "Reuse packing crates",
		Problem:     "Crates are discarded",
		Improvement: "Return them to suppliers",
		Benefit:     "Less waste",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var submitted model.Idea
	into(t, resp, &submitted)
	assert.Equal(t, model.StatusUnderReview, submitted.Status)
	assert.Equal(t, "quality", submitted.Department)
	assert.Equal(t, "reviewer001", submitted.SubmittedByEmployeeNumber)

	w, resp = f.do(http.MethodGet, "/api/v1/ideas", reviewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page model.IdeaPage
	into(t, resp, &page)
	require.Len(t, page.Ideas, 1)

	w, _ = f.do(http.MethodPatch, "/api/v1/ideas/"+submitted.ID+"/status", reviewerToken, model.UpdateStatusRequest{
		Status: model.StatusImplemented,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = f.do(http.MethodPatch, "/api/v1/ideas/"+submitted.ID+"/status", adminToken, model.UpdateStatusRequest{
		Status: model.StatusApproved, ReviewComments: "Go ahead",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reviewed model.Idea
	into(t, resp, &reviewed)
	assert.Equal(t, model.StatusApproved, reviewed.Status)
	assert.Equal(t, "Go ahead", reviewed.ReviewComments)

	// submission plus approval
	w, resp = f.do(http.MethodGet, "/api/v1/ideas/notifications", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notifications []model.Notification
	into(t, resp, &notifications)
	assert.Len(t, notifications, 2)
	assert.NotEmpty(t, f.sms.Sent())

	w, resp = f.do(http.MethodPatch, "/api/v1/ideas/notifications/read-all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var marked struct {
		UpdatedCount int64 `json:"updatedCount"`
	}
	into(t, resp, &marked)
	assert.EqualValues(t, 2, marked.UpdatedCount)

	w, _ = f.do(http.MethodDelete, "/api/v1/ideas/"+submitted.ID, reviewerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = f.do(http.MethodDelete, "/api/v1/ideas/"+submitted.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(http.MethodGet, "/api/v1/ideas/"+submitted.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthenticationAndAuthorization(t *testing.T) {
	f := newAPIFixture(t)

	w, resp := f.do(http.MethodGet, "/api/v1/ideas", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)

	w, _ = f.do(http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		EmployeeNumber: "ADMIN001", Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	reviewerToken := f.login("reviewer001")
	w, _ = f.do(http.MethodGet, "/api/v1/employees", reviewerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = f.do(http.MethodPost, "/api/v1/reviewers", reviewerToken, model.CreateReviewerRequest{
		EmployeeNumber: "R2", Name: "Second", Email: "r2@example.com", Password: "password123",
		Department: "quality", MobileNumber: "9000000003",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Access denied. Insufficient permissions.", resp.Error.Message)

	w, resp = f.do(http.MethodGet, "/api/v1/auth/me", reviewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.Principal
	into(t, resp, &me)
	assert.Equal(t, model.RoleReviewer, me.Role)

	w, _ = f.do(http.MethodPost, "/api/v1/auth/logout", reviewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(http.MethodGet, "/api/v1/auth/me", reviewerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	w, _ := f.do(http.MethodGet, "/api/v1/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.0", w.Header().Get("X-API-Version"))

	w, _ = f.do(http.MethodGet, "/api/v1/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := f.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)

	w, _ = f.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ideabox_http_requests_total")
}
