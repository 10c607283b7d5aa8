// Package handler はesgフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/transport/http/dto"
	"esg_dashboard/internal/feature/esg/transport/render"
	"esg_dashboard/internal/feature/esg/usecase"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

const (
	contentTypeSVG  = "image/svg+xml"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeHTML = "text/html; charset=utf-8"
)

// DashboardUsecase はダッシュボードのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DashboardUsecase interface {
	Build(ctx context.Context, sel usecase.Selection) (*usecase.View, error)
	Subset(ctx context.Context, sel usecase.Selection) ([]entity.Record, error)
	Options(ctx context.Context) (usecase.Options, error)
	Gauge(ctx context.Context, sel usecase.Selection, company string) (usecase.Gauge, error)
}

// DashboardHandler はダッシュボードのページ・API・チャート・エクスポートのHTTPリクエストを処理します。
type DashboardHandler struct {
	uc DashboardUsecase
}

// NewDashboardHandler は指定されたusecaseでDashboardHandlerの新しいインスタンスを生成します。
func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// parseSelection はクエリパラメータから選択条件を組み立てます。
// 値はキーの繰り返しで渡します（例: ?region=Europe&region=Americas）。
func parseSelection(c *gin.Context) (usecase.Selection, error) {
	q := c.Request.URL.Query()
	var companies, peerGroups, regions, countries *[]string
	for _, p := range []struct {
		name string
		dest **[]string
	}{
		{render.ParamCompany, &companies},
		{render.ParamPeerGroup, &peerGroups},
		{render.ParamRegion, &regions},
		{render.ParamCountry, &countries},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			return usecase.Selection{}, fmt.Errorf("invalid format for parameter %s: %w", p.name, err)
		}
	}
	return usecase.NewSelection(deref(companies), deref(peerGroups), deref(regions), deref(countries)), nil
}

func deref(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}

// statusOf はユースケースのエラーをHTTPステータスに対応付けます。
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrCompanyNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortJSON(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: err.Error()})
}

// Page はダッシュボードのHTMLを返します。
//
// エンドポイント例:
// GET /?region=Europe&country=Ireland
func (h *DashboardHandler) Page(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.uc.Build(c.Request.Context(), sel)
	if err != nil {
		status := statusOf(err)
		slog.Error("failed to build dashboard", "error", err)
		c.String(status, "dashboard unavailable: %v", err)
		return
	}

	// テンプレートの実行エラーで中途半端なHTMLを返さないようにバッファへ書き込む
	var buf bytes.Buffer
	if err := render.Page(&buf, v); err != nil {
		slog.Error("failed to render page", "error", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
}

// Dashboard はダッシュボードの表示モデルをJSONで返します。
//
// エンドポイント例:
// GET /api/dashboard?company=Apple&company=Chubb
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err)
		return
	}
	v, err := h.uc.Build(c.Request.Context(), sel)
	if err != nil {
		abortJSON(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, dto.FromView(v))
}

// Options はカテゴリ列ごとの選択肢をJSONで返します。
//
// エンドポイント例:
// GET /api/options
func (h *DashboardHandler) Options(c *gin.Context) {
	opts, err := h.uc.Options(c.Request.Context())
	if err != nil {
		abortJSON(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// svg はチャートを描画してSVGとして返します。サブセットが空の場合は204を返します。
func (h *DashboardHandler) svg(c *gin.Context, draw func(w io.Writer, v *usecase.View) error) {
	sel, err := parseSelection(c)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err)
		return
	}
	v, err := h.uc.Build(c.Request.Context(), sel)
	if err != nil {
		abortJSON(c, statusOf(err), err)
		return
	}
	if v.Waiting {
		c.Status(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, v); err != nil {
		if errors.Is(err, render.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		abortJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, contentTypeSVG, buf.Bytes())
}

// Histogram はESGスコア分布のヒストグラムを返します。
func (h *DashboardHandler) Histogram(c *gin.Context) {
	h.svg(c, func(w io.Writer, v *usecase.View) error { return render.HistogramSVG(w, v.Histogram) })
}

// Bar は企業ごとのESGスコアの棒グラフを返します。
func (h *DashboardHandler) Bar(c *gin.Context) {
	h.svg(c, func(w io.Writer, v *usecase.View) error { return render.BarSVG(w, v.Bars) })
}

// Scatter はESGスコアとガバナンススコアの散布図を返します。
func (h *DashboardHandler) Scatter(c *gin.Context) {
	h.svg(c, func(w io.Writer, v *usecase.View) error { return render.ScatterSVG(w, v.Scatter) })
}

// Gauge はサブセット内の1企業のゲージを返します。
//
// エンドポイント例:
// GET /charts/gauge.svg?gauge=Chubb&region=Europe
func (h *DashboardHandler) Gauge(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err)
		return
	}
	company := c.Query(render.ParamGauge)
	if company == "" {
		abortJSON(c, http.StatusBadRequest, fmt.Errorf("parameter %s is required", render.ParamGauge))
		return
	}

	g, err := h.uc.Gauge(c.Request.Context(), sel, company)
	if err != nil {
		abortJSON(c, statusOf(err), err)
		return
	}
	var buf bytes.Buffer
	if err := render.GaugeSVG(&buf, g); err != nil {
		abortJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, contentTypeSVG, buf.Bytes())
}

// export はフィルタ済みの全行をファイルとして返します。空のサブセットはヘッダーのみになります。
func (h *DashboardHandler) export(c *gin.Context, filename, contentType string, write func(w io.Writer, records []entity.Record) error) {
	sel, err := parseSelection(c)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err)
		return
	}
	rows, err := h.uc.Subset(c.Request.Context(), sel)
	if err != nil {
		abortJSON(c, statusOf(err), err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, rows); err != nil {
		abortJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportCSV はフィルタ済みデータをCSVで返します。
func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	h.export(c, render.CSVFileName, contentTypeCSV, render.WriteCSV)
}

// ExportXLSX はフィルタ済みデータをXLSXで返します。
func (h *DashboardHandler) ExportXLSX(c *gin.Context) {
	h.export(c, render.XLSXFileName, contentTypeXLSX, render.WriteXLSX)
}
