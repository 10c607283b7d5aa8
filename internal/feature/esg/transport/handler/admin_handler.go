package handler

import (
	"context"
	"net/http"
	"time"

	"esg_dashboard/internal/feature/esg/transport/http/dto"
	"esg_dashboard/internal/feature/esg/usecase"

	"github.com/gin-gonic/gin"
)

// DatasetReloader はメモ化されたデータセットを再読み込みします。
type DatasetReloader interface {
	Reload(ctx context.Context) (*usecase.Dataset, error)
}

// AdminHandler は管理者向けの操作を処理します。
type AdminHandler struct {
	datasets DatasetReloader
}

// NewAdminHandler はAdminHandlerの新しいインスタンスを生成します。
func NewAdminHandler(datasets DatasetReloader) *AdminHandler {
	return &AdminHandler{datasets: datasets}
}

// Reload はデータセットを再読み込みし、件数と読み込み時刻を返します。
// 失敗した場合は以前のデータセットが引き続き使われます。
//
// エンドポイント例:
// POST /admin/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	ds, err := h.datasets.Reload(c.Request.Context())
	if err != nil {
		abortJSON(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, dto.ReloadResponse{
		Records:  ds.Len(),
		LoadedAt: ds.LoadedAt().UTC().Format(time.RFC3339),
	})
}
