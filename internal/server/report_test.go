package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/clock"
	"github.com/mutazsaeed/fitzy/internal/config"
	"github.com/mutazsaeed/fitzy/internal/identity"
	"github.com/mutazsaeed/fitzy/internal/observability/metrics"
	reportservice "github.com/mutazsaeed/fitzy/internal/report/service"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
	visitrepo "github.com/mutazsaeed/fitzy/internal/visit/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	err = db.AutoMigrate(
		&visitdomain.Visit{},
		&visitdomain.Gym{},
		&visitdomain.Branch{},
		&visitdomain.User{},
		&visitdomain.Subscription{},
		&visitdomain.UserSubscription{},
	)
	assert.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 9, 15, 12, 0, 0, 0, time.Local))
	reports := reportservice.New(reportservice.Params{
		Repo:  visitrepo.New(visitrepo.Params{DB: db, Log: zap.NewNop()}),
		Clock: fake,
		Cache: cache.NewMemoryStore(),
		Log:   zap.NewNop(),
	})

	engine := NewEngine(EngineParams{
		Log:         zap.NewNop(),
		HTTPMetrics: metrics.NewWithRegistry(prometheus.NewRegistry()),
	})
	srv := NewServer(ServerParams{
		Gin:     engine,
		Cfg:     config.Config{AuthJWTSecret: testSecret, HTTPPort: "8080"},
		Log:     zap.NewNop(),
		Clock:   fake,
		Reports: reports,
	})
	return srv, db
}

func signTestToken(t *testing.T, role string, gymID, userID int64) string {
	t.Helper()
	claims := identity.Claims{Role: role, GymID: gymID}
	if userID != 0 {
		claims.Subject = strconv.FormatInt(userID, 10)
	}
	token, err := identity.SignToken(testSecret, claims, time.Hour)
	assert.NoError(t, err)
	return token
}

func doGet(srv *Server, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func errType(t *testing.T, body []byte) string {
	t.Helper()
	var resp errorResponse
	assert.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error.Type
}

func TestOverview_RequiresPlatformRole(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/api/v1/reporting/overview", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(srv, "/api/v1/reporting/overview", signTestToken(t, "USER", 0, 7))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGet(srv, "/api/v1/reporting/overview", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Range struct {
			Timezone string `json:"timezone"`
		} `json:"range"`
		Timeseries []any `json:"timeseries"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Asia/Riyadh", resp.Range.Timezone)
	assert.Len(t, resp.Timeseries, 30)
}

func TestOverview_InvalidRangeIs400(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/api/v1/reporting/overview?from=2025-09-10&to=2025-09-01", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_range", errType(t, rec.Body.Bytes()))
}

func TestPlanUsage_InvalidThresholdsIs400(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/api/v1/reporting/plan-usage?lowThreshold=0.9&highThreshold=0.1", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_thresholds", errType(t, rec.Body.Bytes()))

	rec = doGet(srv, "/api/v1/reporting/plan-usage?lowThreshold=abc", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errType(t, rec.Body.Bytes()))
}

func TestHeatmap_GymScope(t *testing.T) {
	srv, _ := newTestServer(t)

	// gym admins are locked to their own gym
	rec := doGet(srv, "/api/v1/reporting/gym-hourly-heatmap?gymId=2", signTestToken(t, "GYM_SUPERVISOR", 1, 0))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGet(srv, "/api/v1/reporting/gym-hourly-heatmap?gymId=1", signTestToken(t, "GYM_SUPERVISOR", 1, 0))
	assert.Equal(t, http.StatusOK, rec.Code)

	// platform admins can read any gym
	rec = doGet(srv, "/api/v1/reporting/gym-hourly-heatmap?gymId=2", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusOK, rec.Code)

	// gymId is required
	rec = doGet(srv, "/api/v1/reporting/gym-hourly-heatmap", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGymAdminToday(t *testing.T) {
	srv, db := newTestServer(t)

	today := time.Date(2025, 9, 15, 0, 0, 0, 0, time.Local)
	db.Create(&visitdomain.Visit{ID: 1, UserID: 1, GymID: 1, VisitDate: today, Method: "QR"})

	rec := doGet(srv, "/api/v1/reporting/gym-admin/1/today", signTestToken(t, "GYM_SUPERVISOR", 1, 0))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalVisitsToday int `json:"totalVisitsToday"`
		UniqueUsersToday int `json:"uniqueUsersToday"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalVisitsToday)
	assert.Equal(t, 1, resp.UniqueUsersToday)
}

func TestUserReports_SelfOnly(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/api/v1/reporting/users/8/visits", signTestToken(t, "USER", 0, 7))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGet(srv, "/api/v1/reporting/users/7/visits", signTestToken(t, "USER", 0, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubscriptionRemaining_NotFoundIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/api/v1/reporting/users/7/subscription/remaining", signTestToken(t, "USER", 0, 7))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errType(t, rec.Body.Bytes()))
}

func TestReconciliationExportCSV(t *testing.T) {
	srv, db := newTestServer(t)

	price := 12.5
	db.Create(&visitdomain.Gym{ID: 1, Name: "Iron Works", VisitPrice: &price})
	db.Create(&visitdomain.Visit{ID: 1, UserID: 1, GymID: 1, VisitDate: time.Date(2025, 9, 2, 0, 0, 0, 0, time.Local), Method: "QR"})

	rec := doGet(srv, "/api/v1/reporting/reconciliation/export/csv?month=2025-09", signTestToken(t, "OWNER", 0, 0))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reconciliation-202509")
	assert.Contains(t, rec.Body.String(), "INV-202509-1")
	assert.Contains(t, rec.Body.String(), "TOTALS")
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(srv, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
