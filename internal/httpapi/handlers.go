package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shouni/go-doubutsu-kit/pkg/gateway"
)

// Generator はハンドラーが必要とするゲートウェイの最小インターフェースなのだ。
// テストでは偽物を差し込める。
type Generator interface {
	Generate(ctx context.Context, req gateway.Request) ([]string, error)
}

// Handler は生成境界のHTTPハンドラー群を束ねます。
type Handler struct {
	gw Generator
}

// NewHandler はハンドラーを生成します。
func NewHandler(gw Generator) *Handler {
	return &Handler{gw: gw}
}

// Health は死活監視用のエンドポイントなのだ。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type generateRequestBody struct {
	Prompt          string   `json:"prompt" binding:"required"`
	Count           int      `json:"count"`
	ReferenceImages []string `json:"referenceImages"`
}

// GenerateImages は `{prompt, count, referenceImages}` を受け取り、
// 成功なら `{images}`、失敗なら分類に応じたステータスと `{error}` を返すのだ。
func (h *Handler) GenerateImages(c *gin.Context) {
	var body generateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt は必須なのだ"})
		return
	}

	images, err := h.gw.Generate(c.Request.Context(), gateway.Request{
		Prompt:          body.Prompt,
		Count:           body.Count,
		ReferenceImages: body.ReferenceImages,
	})
	if err != nil {
		status, message := mapGatewayError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

// mapGatewayError はゲートウェイの失敗分類をHTTPステータスへ写すのだ。
// error フィールドの先頭には分類トークンを残しておく。クライアント側の
// 部分一致分類器（"rate" / "credential" / "quota" など）の拠り所になるのだ。
func mapGatewayError(err error) (int, string) {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		return http.StatusBadGateway, err.Error()
	}

	message := string(gerr.Kind) + ": " + gerr.Message

	switch gerr.Kind {
	case gateway.KindNotConfigured:
		return http.StatusServiceUnavailable, message
	case gateway.KindInvalidCredentials:
		return http.StatusUnauthorized, message
	case gateway.KindRateLimited:
		return http.StatusTooManyRequests, message
	case gateway.KindContentBlocked:
		return http.StatusUnprocessableEntity, message
	case gateway.KindQuotaExhausted:
		return http.StatusPaymentRequired, message
	}
	return http.StatusBadGateway, message
}
