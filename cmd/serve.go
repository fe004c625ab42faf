package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-doubutsu-kit/internal/builder"
	"github.com/shouni/go-doubutsu-kit/internal/httpapi"
)

// serveCmd は、生成ゲートウェイのHTTPサーバーを起動するのだ。
// APIキーを扱うのはこのプロセスだけで、portrait / scene コマンドや
// ブラウザUIはすべてここを経由して画像を生成するのだよ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "画像生成ゲートウェイのHTTPサーバーを起動するのだ。",
	Long: `プロンプトと参照画像を受け取り、設定済みのプロバイダー（Gemini / OpenAI）へ
固定の優先順位で振り分けるHTTPサーバーを起動するのだ。
認証情報がこのプロセスの外に出ることは無いのだよ。`,
	Example: "  ap-doubutsu-go serve --addr :8787",
	RunE:    serveCommand,
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadRuntimeConfig(cmd)

	gw, err := builder.BuildGateway(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ゲートウェイの構築に失敗したのだ: %w", err)
	}

	addr := cfg.ListenAddr
	if cmd.Flags().Changed("addr") {
		addr = opts.Addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(gw)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("生成ゲートウェイを起動するのだ",
		"addr", addr,
		"image_model", cfg.ImageModel,
		"gemini_configured", cfg.GeminiAPIKey != "",
		"openai_configured", cfg.OpenAIAPIKey != "",
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバーの起動に失敗したのだ: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("シャットダウン信号を受け取ったのだ。お片付けを始めるのだよ")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("シャットダウンに失敗したのだ: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	slog.Info("また遊ぼうなのだ！")
	return nil
}
