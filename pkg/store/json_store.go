package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

// fileState はJSONファイルに書き出される全状態なのだ。
type fileState struct {
	Animals  map[string]domain.Animal `json:"animals"`
	Scenes   map[string]domain.Scene  `json:"scenes"`
	Settings domain.Settings          `json:"settings"`
}

// JSONStore は Store のファイルベース実装なのだ。
// 書き込みは一時ファイル＋renameで原子的に行われる。
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

// NewJSONStore はファイルを読み込んでストアを初期化します。
// ファイルが存在しなければ既定の設定で空の状態から始まるのだ。
func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		state: fileState{
			Animals:  make(map[string]domain.Animal),
			Scenes:   make(map[string]domain.Scene),
			Settings: domain.DefaultSettings(),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) ListAnimals() ([]domain.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	animals := make([]domain.Animal, 0, len(s.state.Animals))
	for _, a := range s.state.Animals {
		animals = append(animals, a)
	}
	sortByCreation(animals, func(a domain.Animal) time.Time { return a.CreatedAt })
	return animals, nil
}

func (s *JSONStore) GetAnimal(id string) (domain.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.Animals[id]
	if !ok {
		return domain.Animal{}, fmt.Errorf("animal %s: %w", id, ErrNotFound)
	}
	return a, nil
}

func (s *JSONStore) PutAnimal(animal domain.Animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Animals[animal.ID] = animal
	return s.persistLocked()
}

// DeleteAnimal はキャラクターを削除するのだ。
// そのキャラクターを参照するシーンには手を付けない（カスケードしない）。
func (s *JSONStore) DeleteAnimal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Animals[id]; !ok {
		return fmt.Errorf("animal %s: %w", id, ErrNotFound)
	}
	delete(s.state.Animals, id)
	return s.persistLocked()
}

func (s *JSONStore) ClearAnimals() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Animals = make(map[string]domain.Animal)
	return s.persistLocked()
}

func (s *JSONStore) ListScenes() ([]domain.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scenes := make([]domain.Scene, 0, len(s.state.Scenes))
	for _, sc := range s.state.Scenes {
		scenes = append(scenes, sc)
	}
	sortByCreation(scenes, func(sc domain.Scene) time.Time { return sc.CreatedAt })
	return scenes, nil
}

func (s *JSONStore) GetScene(id string) (domain.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.state.Scenes[id]
	if !ok {
		return domain.Scene{}, fmt.Errorf("scene %s: %w", id, ErrNotFound)
	}
	return sc, nil
}

// PutScene はシーンを保存するのだ。新規作成時だけ、参照キャラクターの実在と
// 1〜3件の制約を検証する。既存シーンの更新では検証しない（参照キャラクターが
// 後から削除されてぶら下がるのは許容仕様なのだ）。
func (s *JSONStore) PutScene(scene domain.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.state.Scenes[scene.ID]; !exists {
		if len(scene.AnimalIDs) < 1 || len(scene.AnimalIDs) > domain.MaxSceneAnimals {
			return fmt.Errorf("シーンのキャラクター数が不正なのだ: %d 件（1〜%d 件が必要）", len(scene.AnimalIDs), domain.MaxSceneAnimals)
		}
		for _, id := range scene.AnimalIDs {
			if _, ok := s.state.Animals[id]; !ok {
				return fmt.Errorf("シーンが存在しないキャラクター %s を参照しているのだ", id)
			}
		}
	}

	s.state.Scenes[scene.ID] = scene
	return s.persistLocked()
}

func (s *JSONStore) DeleteScene(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Scenes[id]; !ok {
		return fmt.Errorf("scene %s: %w", id, ErrNotFound)
	}
	delete(s.state.Scenes, id)
	return s.persistLocked()
}

func (s *JSONStore) ClearScenes() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Scenes = make(map[string]domain.Scene)
	return s.persistLocked()
}

func (s *JSONStore) GetSettings() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings.Normalized(), nil
}

func (s *JSONStore) SaveSettings(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings = settings.Normalized()
	return s.persistLocked()
}

// Export は全データのスナップショットを返すのだ。
// 認証情報はエクスポート文書に決して含めない。
func (s *JSONStore) Export() (domain.ExportDocument, error) {
	// 3コレクションまとめて1回のロックで読む。途中で Put が割り込んだ
	// ちぐはぐなスナップショットを作ってはいけないのだ。
	s.mu.RLock()
	defer s.mu.RUnlock()

	animals := make([]domain.Animal, 0, len(s.state.Animals))
	for _, a := range s.state.Animals {
		animals = append(animals, a)
	}
	sortByCreation(animals, func(a domain.Animal) time.Time { return a.CreatedAt })

	scenes := make([]domain.Scene, 0, len(s.state.Scenes))
	for _, sc := range s.state.Scenes {
		scenes = append(scenes, sc)
	}
	sortByCreation(scenes, func(sc domain.Scene) time.Time { return sc.CreatedAt })

	settings := s.state.Settings.Normalized().WithoutCredentials()

	return domain.ExportDocument{
		Version:    domain.ExportVersion,
		ExportedAt: time.Now().UTC(),
		Animals:    animals,
		Scenes:     scenes,
		Settings:   &settings,
	}, nil
}

// Import はスナップショットを取り込むのだ。形式が不正なら何も変更しない。
// 保存済みの認証情報は、インポート文書の設定で上書きされずに生き残る。
func (s *JSONStore) Import(doc domain.ExportDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	animals := make(map[string]domain.Animal, len(doc.Animals))
	for _, a := range doc.Animals {
		animals[a.ID] = a
	}
	scenes := make(map[string]domain.Scene, len(doc.Scenes))
	for _, sc := range doc.Scenes {
		scenes[sc.ID] = sc
	}

	imported := doc.Settings.Normalized()
	imported.GeminiAPIKey = s.state.Settings.GeminiAPIKey
	imported.OpenAIAPIKey = s.state.Settings.OpenAIAPIKey

	s.state = fileState{
		Animals:  animals,
		Scenes:   scenes,
		Settings: imported,
	}
	return s.persistLocked()
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("ストアファイルの読み込みに失敗したのだ: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("ストアファイルのデコードに失敗したのだ: %w", err)
	}
	if state.Animals == nil {
		state.Animals = make(map[string]domain.Animal)
	}
	if state.Scenes == nil {
		state.Scenes = make(map[string]domain.Scene)
	}
	state.Settings = state.Settings.Normalized()
	s.state = state
	return nil
}

// persistLocked は状態をJSONファイルへ原子的に書き出すのだ。
// 必ず書き込みロックを保持した状態で呼ぶこと。
func (s *JSONStore) persistLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("ストア状態のエンコードに失敗したのだ: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ストアディレクトリの作成に失敗したのだ: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗したのだ: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ストア状態の書き込みに失敗したのだ: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ストアファイルの置き換えに失敗したのだ: %w", err)
	}
	return nil
}

// sortByCreation は作成時刻の昇順（同時刻は元の順序を維持）で並べるのだ。
func sortByCreation[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}
