package builder

import (
	"github.com/shouni/go-doubutsu-kit/internal/config"
	"github.com/shouni/go-doubutsu-kit/pkg/generator"
	"github.com/shouni/go-doubutsu-kit/pkg/store"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config        // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.Options        // Optionsは、コマンドラインから渡された実行時の設定です（データファイル、出力先など）。
	Store   store.Store           // Storeは、どうぶつ・シーン・設定を保持する永続化層です。
	Client  *generator.Client     // Clientは、生成ゲートウェイを呼び出すステートレスなクライアントです。
	Writer  remoteio.OutputWriter // Writerは、生成された画像を保存するための出力先です。

	httpClient httpkit.HTTPClient // httpClient は外部APIとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	st store.Store,
	client *generator.Client,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Store:      st,
		Client:     client,
		Writer:     writer,
		httpClient: httpClient,
	}
}
