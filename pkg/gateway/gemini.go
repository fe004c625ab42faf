package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"google.golang.org/genai"
)

const (
	refCacheTTL     = 30 * time.Minute
	refCacheCleanup = 1 * time.Hour
)

// GeminiProvider は参照画像を扱える唯一のプロバイダーなのだ。
// 参照画像はインラインの blob としてプロンプトと一緒に渡される。
type GeminiProvider struct {
	client *genai.Client
	model  string

	// refCache はデコード済み参照 blob のキャッシュなのだ。同じ肖像画が
	// 連続するリクエストで何度も base64 デコードされるのを避けるためで、
	// 生成結果そのものは決してキャッシュしない。
	refCache *cache.Cache
}

// NewGeminiProvider は Gemini クライアントを初期化します。
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗したのだ: %w", err)
	}
	return &GeminiProvider{
		client:   client,
		model:    model,
		refCache: cache.New(refCacheTTL, refCacheCleanup),
	}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// GenerateImage はプロンプトと参照画像から画像を1枚生成するのだ。
func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string, referenceImages []string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, ref := range referenceImages {
		blob, err := p.decodeReference(ref)
		if err != nil {
			return "", fmt.Errorf("参照画像のデコードに失敗したのだ: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(blob, "image/png"))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("geminiが画像を返さなかったのだ")
}

// decodeReference は base64（data URI プレフィックス付きも可）を blob に変換します。
// デコード結果は内容ハッシュをキーに短時間キャッシュされるのだ。
func (p *GeminiProvider) decodeReference(ref string) ([]byte, error) {
	if idx := strings.Index(ref, ";base64,"); idx >= 0 {
		ref = ref[idx+len(";base64,"):]
	}

	key := fmt.Sprintf("%x", sha256.Sum256([]byte(ref)))
	if cached, ok := p.refCache.Get(key); ok {
		return cached.([]byte), nil
	}

	blob, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		return nil, err
	}
	p.refCache.Set(key, blob, cache.DefaultExpiration)
	return blob, nil
}
