package builder

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/shouni/go-doubutsu-kit/internal/config"
	"github.com/shouni/go-doubutsu-kit/pkg/gateway"
	"github.com/shouni/go-doubutsu-kit/pkg/generator"
	"github.com/shouni/go-doubutsu-kit/pkg/store"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// SetupAppContext は、提供された設定を使ってアプリケーションコンテキストを
// 初期化して返すのだ。ストア・生成クライアント・画像の出力先をここで一度だけ組み立てる。
func SetupAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	st, err := store.NewJSONStore(cfg.Options.DataFile)
	if err != nil {
		return nil, fmt.Errorf("ストアの初期化に失敗したのだ: %w", err)
	}

	client := generator.NewClient(httpClient, cfg.Options.Endpoint)

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		slog.WarnContext(ctx, "OutputWriterの取得に失敗しました。画像の保存機能が制限される可能性があります", "error", err)
	}

	appCtx := NewAppContext(cfg, httpClient, st, client, writer)
	return &appCtx, nil
}

// BuildGateway は serve コマンドが使う生成ゲートウェイを構築します。
// 設定済みの認証情報に応じてプロバイダーを組み立てる。どちらも空なら
// プロバイダーなしのゲートウェイになる（リクエスト時に未設定として扱われるのだ）。
func BuildGateway(ctx context.Context, cfg *config.Config) (*gateway.Gateway, error) {
	var vision gateway.Provider
	if cfg.GeminiAPIKey != "" {
		p, err := gateway.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.ImageModel)
		if err != nil {
			return nil, fmt.Errorf("Geminiプロバイダーの初期化に失敗したのだ: %w", err)
		}
		vision = p
	}

	var fallback gateway.Provider
	if cfg.OpenAIAPIKey != "" {
		fallback = gateway.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	if vision == nil && fallback == nil {
		slog.WarnContext(ctx, "生成プロバイダーがひとつも設定されていません。生成リクエストはすべて失敗します",
			"hint", "GEMINI_API_KEY か OPENAI_API_KEY を設定してほしいのだ")
	}

	limiter := rate.NewLimiter(rate.Every(config.DefaultRateInterval), 1)
	return gateway.New(vision, fallback, limiter), nil
}
