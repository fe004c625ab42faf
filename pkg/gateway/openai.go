package gateway

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider は参照画像を扱えないフォールバック用プロバイダーなのだ。
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider は OpenAI の画像生成クライアントを初期化します。
// model が空なら DALL·E 3 を使うのだ。
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// GenerateImage はプロンプトから画像を1枚生成するのだ。
// このプロバイダーは参照画像をサポートしないため、referenceImages は無視される
// （ここに到達するのはフォールバック経路だけで、呼び出し側も承知のうえなのだ）。
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string, _ []string) (string, error) {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          p.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("openaiが画像を返さなかったのだ")
	}
	return resp.Data[0].B64JSON, nil
}
