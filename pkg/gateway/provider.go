package gateway

import "context"

// Provider は画像を1枚ずつ生成する外部モデルの抽象なのだ。
// referenceImages は base64 のインライン画像データで、空スライスも許される。
// 戻り値も base64 のインライン画像データ1枚分です。
type Provider interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string, referenceImages []string) (string, error)
}
