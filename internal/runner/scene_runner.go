package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
	"github.com/shouni/go-doubutsu-kit/pkg/generator"
	"github.com/shouni/go-doubutsu-kit/pkg/safety"
	"github.com/shouni/go-doubutsu-kit/pkg/store"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// SceneInput はシーン作成1回分の入力です。
type SceneInput struct {
	Title       string
	AnimalIDs   []string
	Location    domain.Location
	Description string
}

// SceneOutput はシーン作成の結果なのだ。Reassurance には、すこし心配な
// 言葉づかいだったときのやさしいひとことが入る（なければ空文字列）。
type SceneOutput struct {
	Scene       domain.Scene
	Reassurance string
	SavedPaths  []string
}

// SceneRunner は、登場キャラクターの解決からシーン画像の生成・保存までを担当する実体。
type SceneRunner struct {
	store     store.Store
	client    *generator.Client
	writer    remoteio.OutputWriter
	outputDir string
}

// NewSceneRunner は SceneRunner の新しいインスタンスを生成して返す。
func NewSceneRunner(st store.Store, client *generator.Client, writer remoteio.OutputWriter, outputDir string) *SceneRunner {
	return &SceneRunner{
		store:     st,
		client:    client,
		writer:    writer,
		outputDir: outputDir,
	}
}

// Run はシーンを1つ作成するのだ。説明文が安全フィルターを通ってから
// 生成リクエストを送り、成功したらストアへ保存する。
func (sr *SceneRunner) Run(ctx context.Context, in SceneInput) (SceneOutput, error) {
	settings, err := sr.store.GetSettings()
	if err != nil {
		return SceneOutput{}, fmt.Errorf("設定の読み込みに失敗したのだ: %w", err)
	}

	if len(in.AnimalIDs) == 0 || len(in.AnimalIDs) > domain.MaxSceneAnimals {
		return SceneOutput{}, fmt.Errorf("登場キャラクターは1〜%d体にしてほしいのだ", domain.MaxSceneAnimals)
	}
	if !domain.ValidLocation(in.Location) {
		return SceneOutput{}, fmt.Errorf("しらないばしょなのだ: %s", in.Location)
	}

	check := safety.ValidateSceneDescription(in.Description, settings.ExtraGentleMode)
	if !check.IsAllowed {
		return SceneOutput{}, fmt.Errorf("%s", check.FriendlyMessage)
	}

	animals := make([]domain.Animal, 0, len(in.AnimalIDs))
	for _, id := range in.AnimalIDs {
		animal, err := sr.store.GetAnimal(id)
		if err != nil {
			return SceneOutput{}, fmt.Errorf("キャラクター %s が見つからないのだ: %w", id, err)
		}
		animals = append(animals, animal)
	}

	slog.Info("シーン画像の生成を開始するのだ",
		"location", in.Location,
		"animals", len(animals),
	)
	result, prompt := sr.client.GenerateSceneImages(ctx, animals, in.Location, check.CleanedText, settings)
	if !result.Success {
		return SceneOutput{}, fmt.Errorf("シーンの生成に失敗したのだ: %s", result.FriendlyMessage)
	}

	scene := domain.NewScene(in.Title, in.Location, in.AnimalIDs, check.CleanedText, prompt, result.Images)
	if err := sr.store.PutScene(scene); err != nil {
		return SceneOutput{}, fmt.Errorf("シーンの保存に失敗したのだ: %w", err)
	}

	paths, err := saveImages(ctx, sr.writer, sr.outputDir, "scene_"+scene.ID, result.Images)
	if err != nil {
		slog.Warn("シーン画像のファイル保存に失敗しました", "scene", scene.ID, "error", err)
	}

	slog.Info("シーンが完成したのだ", "scene", scene.ID, "images", len(scene.Images))
	return SceneOutput{Scene: scene, Reassurance: check.FriendlyMessage, SavedPaths: paths}, nil
}
