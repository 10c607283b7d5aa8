// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessFunc はサービスがリクエストを処理できる状態かを返します。
type ReadinessFunc func() bool

// Health は /healthz エンドポイントのハンドラーを返します。
// ready が false を返す間（データセット未読み込みなど）は503を返し、キャッシュを防止します。
// ready が nil の場合は常に準備完了として扱います。
func Health(ready ReadinessFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		status := http.StatusOK
		body := gin.H{"status": "ok"}
		if ready != nil && !ready() {
			status = http.StatusServiceUnavailable
			body = gin.H{"status": "unavailable"}
		}

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(status)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(status, body)
		}
	}
}
