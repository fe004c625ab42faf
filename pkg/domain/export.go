package domain

import (
	"errors"
	"time"
)

// ExportVersion はエクスポート形式のバージョンなのだ。
// 形式を変えるときは必ずインクリメントすること。
const ExportVersion = 1

// ExportDocument はバックアップ・引っ越し用のエクスポート形式なのだ。
// Settings は WithoutCredentials 済みのものだけを入れること。
type ExportDocument struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Animals    []Animal  `json:"animals"`
	Scenes     []Scene   `json:"scenes"`
	Settings   *Settings `json:"settings"`
}

// ErrInvalidExportFormat はインポート対象が必須要素を欠いている場合のエラーです。
var ErrInvalidExportFormat = errors.New("エクスポート形式が不正なのだ: animals / scenes / settings がすべて必要です")

// Validate はインポート前の形式チェックを行うのだ。
// 3つのトップレベル要素が欠けている場合は ErrInvalidExportFormat を返します。
func (d ExportDocument) Validate() error {
	if d.Animals == nil || d.Scenes == nil || d.Settings == nil {
		return ErrInvalidExportFormat
	}
	if d.Version < 1 || d.Version > ExportVersion {
		return ErrInvalidExportFormat
	}
	return nil
}
