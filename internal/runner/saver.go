// Package runner は、CLIコマンドから呼ばれる各フローの実体なのだ。
// 安全フィルター → プロンプト構築 → 生成クライアント → 永続化という
// 一連の流れをここで束ねる。
package runner

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// decodeImage は data URI または素のBase64文字列をバイト列とMIMEタイプに分解するのだ。
func decodeImage(image string) ([]byte, string, error) {
	mimeType := "image/png"
	payload := image

	if strings.HasPrefix(image, "data:") {
		rest := strings.TrimPrefix(image, "data:")
		if idx := strings.Index(rest, ";base64,"); idx >= 0 {
			if rest[:idx] != "" {
				mimeType = rest[:idx]
			}
			payload = rest[idx+len(";base64,"):]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("画像データのデコードに失敗したのだ: %w", err)
	}
	return data, mimeType, nil
}

// extensionFor はMIMEタイプからファイル拡張子を決定するのだ。
func extensionFor(mimeType string) string {
	extensions, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(extensions) == 0 {
		slog.Warn(
			"Could not determine file extension from MIME type, defaulting to .png",
			slog.String("mime_type", mimeType),
		)
		return ".png"
	}
	return extensions[0]
}

// saveImages は生成された画像を並列でファイル保存し、保存先のパス一覧を返すのだ。
// writer が無い構成（出力先の初期化に失敗した場合）では何もしない。
func saveImages(ctx context.Context, writer remoteio.OutputWriter, dir, baseName string, images []string) ([]string, error) {
	if writer == nil || len(images) == 0 {
		return nil, nil
	}

	paths := make([]string, len(images))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, img := range images {
		i, img := i, img // ゴルーチンのクロージャ対策なのだ

		eg.Go(func() error {
			data, mimeType, err := decodeImage(img)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("%s_%02d%s", baseName, i+1, extensionFor(mimeType))
			path := filepath.Join(dir, name)

			if err := writer.Write(egCtx, path, bytes.NewReader(data), mimeType); err != nil {
				return fmt.Errorf("画像の保存に失敗したのだ: %w", err)
			}

			paths[i] = path
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
