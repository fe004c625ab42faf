// Package store は、キャラクター・シーン・設定シングルトンを保持する
// ローカルのキーバリューストアなのだ。外部DBは使わず、1つのJSONファイルに
// すべてを永続化する。
package store

import (
	"errors"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

// ErrNotFound は get-one / delete の対象が存在しないときのエラーです。
var ErrNotFound = errors.New("対象のエントリが見つからないのだ")

// Store は3つのコレクション（animals / scenes / settings）への
// CRUD とエクスポート・インポートを提供するのだ。
type Store interface {
	ListAnimals() ([]domain.Animal, error)
	GetAnimal(id string) (domain.Animal, error)
	PutAnimal(animal domain.Animal) error
	DeleteAnimal(id string) error
	ClearAnimals() error

	ListScenes() ([]domain.Scene, error)
	GetScene(id string) (domain.Scene, error)
	PutScene(scene domain.Scene) error
	DeleteScene(id string) error
	ClearScenes() error

	GetSettings() (domain.Settings, error)
	SaveSettings(settings domain.Settings) error

	// Export は認証情報を取り除いた完全なスナップショットを返すのだ。
	Export() (domain.ExportDocument, error)
	// Import はスナップショットを取り込む。保存済みの認証情報は
	// インポート文書の内容に関係なく保持されるのだ。
	Import(doc domain.ExportDocument) error
}
