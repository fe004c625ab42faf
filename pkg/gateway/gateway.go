package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
	"golang.org/x/time/rate"
)

// DefaultRateInterval は1枚ごとのプロバイダー呼び出しの最小間隔なのだ。
// キー単位のレート制限を尊重するため、複数枚の生成は必ず逐次で行う。
const DefaultRateInterval = 2 * time.Second

// Request は生成境界への1リクエスト分の入力です。
type Request struct {
	Prompt          string   `json:"prompt"`
	Count           int      `json:"count"`
	ReferenceImages []string `json:"referenceImages"`
}

// Gateway はプロバイダーを固定優先順位で試行するフォールバック機構なのだ。
// 自身は生成結果のキャッシュもメモ化も一切持たない。同じプロンプトでも
// 呼ぶたびに違う画像が返ることを呼び出し側は承知しておくこと。
type Gateway struct {
	// vision は参照画像を扱えるプロバイダー（認証情報が無ければ nil）。
	vision Provider
	// fallback は参照画像を扱えない最終プロバイダー（同じく nil 可）。
	fallback Provider
	limiter  *rate.Limiter
}

// New はゲートウェイを組み立てます。vision / fallback はどちらも nil にできるが、
// 両方 nil の場合は全リクエストが KindNotConfigured で即時失敗するのだ。
func New(vision, fallback Provider, limiter *rate.Limiter) *Gateway {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(DefaultRateInterval), 1)
	}
	return &Gateway{vision: vision, fallback: fallback, limiter: limiter}
}

// Generate は固定の優先順位でプロバイダーを試行して画像を返すのだ。
//
//  1. 参照画像ありかつ vision 構成済み → vision に参照画像付きで試行。
//     失敗したら残りのプロバイダーは参照画像を扱えないので、リトライせず
//     ステップ3へ直行する。
//  2. 参照画像なしかつ vision 構成済み → vision に参照画像なしで試行。
//     失敗したらステップ3へ。
//  3. fallback 構成済み → その結果（成功・失敗とも）が最終回答。
//  4. どちらも未構成 → ネットワークを一切呼ばずに KindNotConfigured。
func (g *Gateway) Generate(ctx context.Context, req Request) ([]string, error) {
	if g.vision == nil && g.fallback == nil {
		return nil, NewError(KindNotConfigured, "生成プロバイダーがひとつも設定されていないのだ", nil)
	}

	count := clampCount(req.Count)
	var firstErr error

	if len(req.ReferenceImages) > 0 {
		if g.vision != nil {
			images, err := g.attempt(ctx, g.vision, req.Prompt, req.ReferenceImages, count)
			if err == nil {
				return images, nil
			}
			firstErr = err
		}
	} else if g.vision != nil {
		images, err := g.attempt(ctx, g.vision, req.Prompt, nil, count)
		if err == nil {
			return images, nil
		}
		firstErr = err
	}

	if g.fallback != nil {
		images, err := g.attempt(ctx, g.fallback, req.Prompt, nil, count)
		if err == nil {
			return images, nil
		}
		return nil, err
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return nil, NewError(KindNotConfigured, "このリクエストを処理できるプロバイダーが設定されていないのだ", nil)
}

// attempt は1プロバイダーぶんの試行なのだ。count 枚を厳密に逐次で要求し、
// 途中で1枚でも失敗したら、それまでに集めた画像を破棄して試行全体を失敗に
// する。部分的な成功セットを返すことは決してない。
func (g *Gateway) attempt(ctx context.Context, p Provider, prompt string, refs []string, count int) ([]string, error) {
	images := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, NewError(KindProviderError, "生成が中断されたのだ", err)
		}

		start := time.Now()
		img, err := p.GenerateImage(ctx, prompt, refs)
		if err != nil {
			gerr := classifyProviderError(p.Name(), err)
			slog.Warn("provider attempt failed",
				"provider", p.Name(),
				"image_index", i+1,
				"requested", count,
				"kind", string(gerr.Kind),
				"error", err,
			)
			return nil, gerr
		}
		if img == "" {
			return nil, NewError(KindNoImages, "プロバイダーが空の画像を返したのだ", nil)
		}

		slog.Info("image generated",
			"provider", p.Name(),
			"image_index", i+1,
			"requested", count,
			"duration", time.Since(start).Round(time.Millisecond),
		)
		images = append(images, img)
	}
	return images, nil
}

// clampCount は要求枚数を 1〜MaxImageCount に丸めるのだ。
func clampCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > domain.MaxImageCount {
		return domain.MaxImageCount
	}
	return count
}
