package cmd

import (
	"github.com/joho/godotenv"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-doubutsu-kit/internal/config"
	"github.com/shouni/go-doubutsu-kit/pkg/store"
)

// opts は全コマンド共通の実行時オプションなのだ。addAppFlags で各フラグに紐付く。
var opts config.Options

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- データ・出力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.DataFile, "data-file", "d", config.DefaultDataFile, "どうぶつとシーンを保存するJSONファイルのパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputImageDir, "output-image-dir", "i", config.DefaultOutputDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- 生成挙動の設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", config.DefaultGatewayEndpoint, "生成ゲートウェイのURLなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する画像モデル名なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.ImageCount, "image-count", config.DefaultImageCount, "シーン1回あたりの生成枚数（1〜4）なのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.ExtraGentle, "extra-gentle", false, "より小さい子向けの、厳しめの安全フィルターを有効にするのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().StringVar(&opts.Addr, "addr", config.DefaultListenAddr, "serve コマンドの待ち受けアドレスなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前の共通準備なのだ。
// APIキーの必須チェックはしない。portrait / scene はゲートウェイ経由で動くし、
// serve はプロバイダー未設定でも起動だけはできるのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// .env があれば読み込む（無くてもエラーにはしないのだ）
	_ = godotenv.Load()
	return nil
}

// loadRuntimeConfig は環境変数とCLIフラグを1つの Config にまとめるのだ。
func loadRuntimeConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts

	// フラグが明示されていなければ、環境変数側の値を優先するのだ。
	if !cmd.Flags().Changed("data-file") && cfg.DataFile != "" {
		cfg.Options.DataFile = cfg.DataFile
	}
	if !cmd.Flags().Changed("endpoint") && cfg.GatewayEndpoint != "" {
		cfg.Options.Endpoint = cfg.GatewayEndpoint
	}
	if cmd.Flags().Changed("image-model") {
		cfg.ImageModel = opts.ImageModel
	}
	if opts.ExtraGentle {
		cfg.ExtraGentleMode = true
	}
	return cfg
}

// applySettingsFlags は、明示的に指定されたフラグを保存済み設定へ反映するのだ。
// 指定が無ければストアの値をそのまま使う。
func applySettingsFlags(cmd *cobra.Command, st store.Store) error {
	settings, err := st.GetSettings()
	if err != nil {
		return err
	}

	changed := false
	if cmd.Flags().Changed("extra-gentle") {
		settings.ExtraGentleMode = opts.ExtraGentle
		changed = true
	}
	if cmd.Flags().Changed("image-count") {
		settings.ImageCount = opts.ImageCount
		changed = true
	}
	if cmd.Flags().Changed("image-model") {
		settings.ImageModel = opts.ImageModel
		changed = true
	}

	if !changed {
		return nil
	}
	return st.SaveSettings(settings.Normalized())
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-doubutsu-go",
		addAppFlags,
		preRunAppE,
		serveCmd,
		portraitCmd,
		sceneCmd,
		exportCmd,
		importCmd,
	)
}
