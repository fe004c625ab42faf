package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultOpenAIModel  = "dall-e-3"
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultRateInterval = 2 * time.Second
	DefaultImageCount   = 2
	DefaultListenAddr   = ":8787"
	DefaultDataFile     = "data/studio.json"
	DefaultOutputDir    = "output/images"

	// DefaultGatewayEndpoint は CLI フローが叩く生成境界のURLなのだ。
	// 認証情報は serve プロセスの外へ出さないため、portrait / scene は
	// 必ずここを経由する。
	DefaultGatewayEndpoint = "http://localhost:8787/api/generate-images"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey    string
	OpenAIAPIKey    string
	ImageModel      string
	OpenAIModel     string
	GatewayEndpoint string
	ListenAddr      string
	DataFile        string
	ExtraGentleMode bool

	Options Options
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:    envutil.GetEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    envutil.GetEnv("OPENAI_API_KEY", ""),
		ImageModel:      envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		OpenAIModel:     envutil.GetEnv("IMAGE_OPENAI_MODEL", DefaultOpenAIModel),
		GatewayEndpoint: envutil.GetEnv("GATEWAY_ENDPOINT", DefaultGatewayEndpoint),
		ListenAddr:      envutil.GetEnv("LISTEN_ADDR", DefaultListenAddr),
		DataFile:        envutil.GetEnv("DATA_FILE", DefaultDataFile),
		ExtraGentleMode: envutil.GetEnv("EXTRA_GENTLE_MODE", "") == "true",
	}
}

// Options は CLI フラグから渡される実行時のパラメータなのだ。
type Options struct {
	// データ・出力関連
	DataFile       string // --data-file
	OutputImageDir string // --output-image-dir

	// 生成挙動の設定
	Endpoint    string // --endpoint: 生成ゲートウェイのURL
	ImageModel  string // --image-model
	ImageCount  int    // --image-count: シーン1回あたりの要求枚数
	ExtraGentle bool   // --extra-gentle: より厳しめのフィルタリング

	// 実行制御
	Addr        string        // --addr: serve の待ち受けアドレス
	HTTPTimeout time.Duration // --http-timeout
}
