// Package httpapi は生成ゲートウェイのHTTP境界なのだ。
// プロバイダーの認証情報はこのプロセスの中だけで使われ、
// レスポンスに載るのは画像データか分類済みのエラー文言だけです。
package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter は gin エンジンを組み立てます。
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// ブラウザのUIから直接呼ばれるため CORS は全オリジン許可なのだ
	// （認証情報を運ばないエンドポイントなので問題にならない）。
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST"},
		AllowHeaders:    []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", h.Health)
	router.POST("/api/generate-images", h.GenerateImages)
	return router
}

// requestLogger は slog ベースの簡素なアクセスログなのだ。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}
