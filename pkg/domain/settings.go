package domain

// Settings はプロセス全体で共有される設定のシングルトンなのだ。
// 起動時に読み込まれ、明示的な保存操作でのみ更新されます。
type Settings struct {
	// ImageModel は画像生成に使うモデル識別子です。
	ImageModel string `json:"image_model"`
	// ImageCount はシーン生成1回あたりの要求枚数（1〜4）です。
	ImageCount int `json:"image_count"`
	// KidSafeMode は現行スコープでは常に true で、UIからは切り替え不可なのだ。
	KidSafeMode bool `json:"kid_safe_mode"`
	// ExtraGentleMode を有効にすると、より厳しめのフィルタリングになるのだ。
	ExtraGentleMode bool `json:"extra_gentle_mode"`

	// 認証情報はサーバー境界の外へ出してはいけないのだ。
	// エクスポート時には WithoutCredentials で必ず取り除かれます。
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	OpenAIAPIKey string `json:"openai_api_key,omitempty"`
}

// MaxImageCount は1回の生成で要求できる画像枚数の上限なのだ。
const MaxImageCount = 4

// DefaultSettings は初回起動時に使う既定値を返します。
func DefaultSettings() Settings {
	return Settings{
		ImageModel:      "gemini-3-pro-image-preview",
		ImageCount:      2,
		KidSafeMode:     true,
		ExtraGentleMode: false,
	}
}

// Normalized は不変条件を満たすように補正したコピーを返すのだ。
// KidSafeMode は常に true、ImageCount は 1〜MaxImageCount に丸められます。
func (s Settings) Normalized() Settings {
	s.KidSafeMode = true
	if s.ImageCount < 1 {
		s.ImageCount = 1
	}
	if s.ImageCount > MaxImageCount {
		s.ImageCount = MaxImageCount
	}
	if s.ImageModel == "" {
		s.ImageModel = DefaultSettings().ImageModel
	}
	return s
}

// WithoutCredentials は認証情報を取り除いたコピーを返します。
func (s Settings) WithoutCredentials() Settings {
	s.GeminiAPIKey = ""
	s.OpenAIAPIKey = ""
	return s
}

// HasCredentials はいずれかのプロバイダー認証情報が設定されているかを返します。
func (s Settings) HasCredentials() bool {
	return s.GeminiAPIKey != "" || s.OpenAIAPIKey != ""
}
