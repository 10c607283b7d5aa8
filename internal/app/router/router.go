package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	esghandler "esg_dashboard/internal/feature/esg/transport/handler"
	platformhandler "esg_dashboard/internal/platform/http/handler"
	"esg_dashboard/internal/platform/http/middleware"
	jwtmw "esg_dashboard/internal/platform/jwt"
)

// Config は認証・ヘルスチェックなどルーティングに必要な設定です。
type Config struct {
	JWTSecret string
	Ready     platformhandler.ReadinessFunc
	Logger    *slog.Logger
}

func NewRouter(cfg Config, dashboard *esghandler.DashboardHandler, admin *esghandler.AdminHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger))

	// 認証不要
	// 導通確認用（データセット読み込み前は503）
	health := platformhandler.Health(cfg.Ready)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// ダッシュボード本体
	r.GET("/", dashboard.Page)
	r.GET("/export.csv", dashboard.ExportCSV)
	r.GET("/export.xlsx", dashboard.ExportXLSX)

	charts := r.Group("/charts")
	{
		charts.GET("/histogram.svg", dashboard.Histogram)
		charts.GET("/bar.svg", dashboard.Bar)
		charts.GET("/scatter.svg", dashboard.Scatter)
		charts.GET("/gauge.svg", dashboard.Gauge)
	}

	api := r.Group("/api")
	{
		api.GET("/dashboard", dashboard.Dashboard)
		api.GET("/options", dashboard.Options)
	}

	// 管理者JWT必須のルート
	adminGroup := r.Group("/admin")
	adminGroup.Use(jwtmw.AdminRequired(cfg.JWTSecret))
	{
		adminGroup.POST("/reload", admin.Reload)
	}

	return r
}
