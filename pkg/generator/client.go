// Package generator は、UI側の各フローから生成ゲートウェイを呼び出す
// ステートレスなクライアントなのだ。雑多な上流エラーを5種類の子ども向け
// メッセージに正規化する責務もここが持つ。
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
	"github.com/shouni/go-doubutsu-kit/pkg/prompts"
)

// FailureKind はユーザーに見せる失敗の閉じた分類なのだ。
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureTransport   FailureKind = "transport"
	FailureRateLimited FailureKind = "rate_limited"
	FailureContent     FailureKind = "content_blocked"
	FailureCredentials FailureKind = "credentials"
	FailureQuota       FailureKind = "quota"
	FailureNoImages    FailureKind = "no_images"
	FailureUnknown     FailureKind = "unknown"
)

// Result は生成呼び出し1回分の結果です。失敗時は Images が空で、
// FriendlyMessage にそのまま画面に出せる文言が入るのだ。
type Result struct {
	Success         bool
	Images          []string
	FailureKind     FailureKind
	FriendlyMessage string
}

// httpDoer は HTTP リクエストを1回実行できるものの最小インターフェースなのだ。
// 本番では go-http-kit のクライアントを、テストでは httptest 向けの
// *http.Client をそのまま渡せる。
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client は生成ゲートウェイへの request/response クライアントなのだ。
// 呼び出しをまたぐ状態は一切持たない（1リクエスト↔1レスポンス）。
type Client struct {
	httpClient httpDoer
	endpoint   string
}

// NewClient は生成クライアントを作ります。endpoint はゲートウェイの
// generate-images エンドポイントの完全なURLなのだ。
func NewClient(httpClient httpDoer, endpoint string) *Client {
	return &Client{httpClient: httpClient, endpoint: endpoint}
}

type generateRequest struct {
	Prompt          string   `json:"prompt"`
	Count           int      `json:"count"`
	ReferenceImages []string `json:"referenceImages"`
}

type generateResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error"`
}

// GenerateImages はプロンプトと参照画像をゲートウェイへ送信するのだ。
// どんな失敗でも panic せず、分類済みの Result として返す。
func (c *Client) GenerateImages(ctx context.Context, prompt string, settings domain.Settings, count int, referenceImages []string) Result {
	if referenceImages == nil {
		referenceImages = []string{}
	}
	body, err := json.Marshal(generateRequest{
		Prompt:          prompt,
		Count:           count,
		ReferenceImages: referenceImages,
	})
	if err != nil {
		return transportFailure()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportFailure()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure()
	}

	var parsed generateResponse
	if jsonErr := json.Unmarshal(raw, &parsed); jsonErr != nil {
		// 2xx以外でボディも解釈できないときは接続系の扱いにするのだ
		return transportFailure()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorText := parsed.Error
		if errorText == "" {
			errorText = string(raw)
		}
		return classifyUpstreamError(errorText)
	}

	// 2xxでも0枚は成功扱いにしない。空配列が正の応答になることは決してないのだ。
	if len(parsed.Images) == 0 {
		return Result{
			FailureKind:     FailureNoImages,
			FriendlyMessage: "えがとどかなかったみたい…もういちどためしてみてね🎨",
		}
	}

	return Result{Success: true, Images: parsed.Images}
}

// GenerateAnimalPortrait はキャラクターの肖像画を1枚だけ生成する便利ラッパーなのだ。
func (c *Client) GenerateAnimalPortrait(ctx context.Context, animal domain.Animal, settings domain.Settings) (Result, string) {
	prompt := prompts.BuildAnimalPortraitPrompt(animal)
	return c.GenerateImages(ctx, prompt, settings, 1, nil), prompt
}

// GenerateSceneImages はシーン画像を生成する便利ラッパーなのだ。
// 枚数は settings から取り、参照画像は各キャラクターの肖像画・ステッカーから
// 自動収集する。永続化と監査のため、実際に使ったプロンプトも返すのだよ。
func (c *Client) GenerateSceneImages(ctx context.Context, animals []domain.Animal, location domain.Location, description string, settings domain.Settings) (Result, string) {
	prompt := prompts.BuildScenePrompt(animals, location, description)

	refs := make([]string, 0, len(animals))
	for _, a := range animals {
		if img := a.ReferenceImage(); img != "" {
			refs = append(refs, img)
		}
	}

	settings = settings.Normalized()
	return c.GenerateImages(ctx, prompt, settings, settings.ImageCount, refs), prompt
}

func transportFailure() Result {
	return Result{
		FailureKind:     FailureTransport,
		FriendlyMessage: "インターネットにつながらないみたい…ちょっとまってからもういちどためしてね🌐",
	}
}

// classifyUpstreamError は上流のエラーテキストを5分類に写すのだ。
// 照合順序は固定で、最初に一致した分類が勝つ。
func classifyUpstreamError(errorText string) Result {
	msg := strings.ToLower(errorText)

	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate"):
		return Result{
			FailureKind:     FailureRateLimited,
			FriendlyMessage: "いまおえかきやさんがおおいそがし！すこしまってからもういちどためしてね⏰",
		}
	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked") ||
		strings.Contains(msg, "policy") || strings.Contains(msg, "content"):
		return Result{
			FailureKind:     FailureContent,
			FriendlyMessage: "そのおはなしはえにできなかったよ。べつのたのしいおはなしにしてみよう🌈",
		}
	case strings.Contains(msg, "auth") || strings.Contains(msg, "401") ||
		strings.Contains(msg, "api key") || strings.Contains(msg, "credential") ||
		strings.Contains(msg, "config"):
		return Result{
			FailureKind:     FailureCredentials,
			FriendlyMessage: "せっていがうまくいっていないみたい。おうちのひとにみてもらってね🔧",
		}
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing") ||
		strings.Contains(msg, "exceeded"):
		return Result{
			FailureKind:     FailureQuota,
			FriendlyMessage: "きょうのぶんのおえかきけんをつかいきっちゃった。またあしたあそぼうね🎫",
		}
	}
	return Result{
		FailureKind:     FailureUnknown,
		FriendlyMessage: "うまくいかなかったみたい…もういちどためしてみてね🍀",
	}
}
