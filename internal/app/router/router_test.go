package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esg_dashboard/internal/feature/esg/domain/entity"
	esghandler "esg_dashboard/internal/feature/esg/transport/handler"
	"esg_dashboard/internal/feature/esg/usecase"
	jwtmw "esg_dashboard/internal/platform/jwt"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// staticRepository は固定のレコードを返すRecordRepositoryです。
type staticRepository struct {
	records []entity.Record
}

func (s staticRepository) FindAll(ctx context.Context) ([]entity.Record, error) {
	return s.records, nil
}

func setupRouter(t *testing.T, preload bool) *gin.Engine {
	t.Helper()
	datasets := usecase.NewDatasetProvider(staticRepository{records: []entity.Record{
		{Company: "A", Ticker: "AA", PeerGroupRoot: "Banks", Region: "US", Country: "United States", TotalESGScore: entity.Score(80), GovernanceScore: entity.Score(12)},
		{Company: "B", Ticker: "BB", PeerGroupRoot: "Banks", Region: "EU", Country: "France", TotalESGScore: entity.Score(50), GovernanceScore: entity.Score(6)},
	}})
	if preload {
		_, err := datasets.Load(context.Background())
		require.NoError(t, err)
	}

	return NewRouter(Config{
		JWTSecret: testSecret,
		Ready:     datasets.Loaded,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, esghandler.NewDashboardHandler(usecase.NewDashboardUsecase(datasets)), esghandler.NewAdminHandler(datasets))
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestRouter_Routes は公開ルートが登録されていることを検証します。
func TestRouter_Routes(t *testing.T) {
	r := setupRouter(t, true)

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/healthz", http.StatusOK, "application/json"},
		{"/?region=US", http.StatusOK, "text/html"},
		{"/api/dashboard?region=US", http.StatusOK, "application/json"},
		{"/api/options", http.StatusOK, "application/json"},
		{"/charts/histogram.svg?region=US", http.StatusOK, "image/svg+xml"},
		{"/charts/bar.svg?region=US", http.StatusOK, "image/svg+xml"},
		{"/charts/scatter.svg?region=US", http.StatusOK, "image/svg+xml"},
		{"/charts/gauge.svg?region=US&gauge=A", http.StatusOK, "image/svg+xml"},
		{"/charts/histogram.svg", http.StatusNoContent, ""},
		{"/export.csv?region=US", http.StatusOK, "text/csv"},
		{"/export.xlsx?region=US", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.contentType != "" {
				assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), tt.contentType),
					"unexpected content type %q", w.Header().Get("Content-Type"))
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

// TestRouter_HealthBeforeLoad はデータセット読み込み前に/healthzが503を返すことを検証します。
func TestRouter_HealthBeforeLoad(t *testing.T) {
	r := setupRouter(t, false)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestRouter_AdminReload は/admin/reloadが管理者トークンを要求することを検証します。
func TestRouter_AdminReload(t *testing.T) {
	r := setupRouter(t, true)

	adminToken, err := jwtmw.NewGenerator(testSecret, time.Hour).GenerateToken("ops", jwtmw.RoleAdmin)
	require.NoError(t, err)
	viewerToken, err := jwtmw.NewGenerator(testSecret, time.Hour).GenerateToken("ops", "viewer")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"viewer token", viewerToken, http.StatusForbidden},
		{"admin token", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := serve(r, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"records":2`)
			}
		})
	}
}
