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

// PortraitInput は想像モードのキャラクター作成1回分の入力です。
type PortraitInput struct {
	Name         string
	Species      domain.Species
	Personality  domain.Personality
	Colors       domain.Colors
	SpecialThing string
}

// PortraitOutput はキャラクター作成の結果なのだ。
type PortraitOutput struct {
	Animal     domain.Animal
	SavedPaths []string // ローカル or gs:// に保存された画像のパス
}

// PortraitRunner は、入力の検証から肖像画の生成・保存までを担当する実体。
type PortraitRunner struct {
	store     store.Store
	client    *generator.Client
	writer    remoteio.OutputWriter
	outputDir string
}

// NewPortraitRunner は PortraitRunner の新しいインスタンスを生成して返す。
func NewPortraitRunner(st store.Store, client *generator.Client, writer remoteio.OutputWriter, outputDir string) *PortraitRunner {
	return &PortraitRunner{
		store:     st,
		client:    client,
		writer:    writer,
		outputDir: outputDir,
	}
}

// Run はキャラクターを1体作成するのだ。入力の検証がすべて通ってから
// 生成リクエストを送り、成功したらストアへ保存する。
func (pr *PortraitRunner) Run(ctx context.Context, in PortraitInput) (PortraitOutput, error) {
	settings, err := pr.store.GetSettings()
	if err != nil {
		return PortraitOutput{}, fmt.Errorf("設定の読み込みに失敗したのだ: %w", err)
	}

	if check := safety.ValidateAnimalName(in.Name, settings.ExtraGentleMode); !check.IsAllowed {
		return PortraitOutput{}, fmt.Errorf("%s", check.FriendlyMessage)
	}
	if in.SpecialThing != "" {
		if check := safety.CheckContent(in.SpecialThing, settings.ExtraGentleMode); !check.IsAllowed {
			return PortraitOutput{}, fmt.Errorf("%s", check.FriendlyMessage)
		}
	}
	// 模様は肖像画だけでなく、あとのシーンプロンプトにもインライン展開される
	// 自由テキストなので、ここで必ずフィルターを通すのだ。
	if in.Colors.Markings != "" {
		if check := safety.CheckContent(in.Colors.Markings, settings.ExtraGentleMode); !check.IsAllowed {
			return PortraitOutput{}, fmt.Errorf("%s", check.FriendlyMessage)
		}
	}
	if !domain.ValidSpecies(in.Species) {
		return PortraitOutput{}, fmt.Errorf("しらないどうぶつなのだ: %s", in.Species)
	}
	if !domain.ValidPersonality(in.Personality) {
		return PortraitOutput{}, fmt.Errorf("しらないせいかくなのだ: %s", in.Personality)
	}

	animal := domain.NewAnimal(domain.ModeImagined, in.Name, in.Species, in.Personality, in.Colors, in.SpecialThing)

	slog.Info("肖像画の生成を開始するのだ", "animal", animal.String())
	result, prompt := pr.client.GenerateAnimalPortrait(ctx, animal, settings)
	if !result.Success {
		return PortraitOutput{}, fmt.Errorf("肖像画の生成に失敗したのだ: %s", result.FriendlyMessage)
	}

	animal.PortraitImage = result.Images[0]
	if err := pr.store.PutAnimal(animal); err != nil {
		return PortraitOutput{}, fmt.Errorf("キャラクターの保存に失敗したのだ: %w", err)
	}

	paths, err := saveImages(ctx, pr.writer, pr.outputDir, "portrait_"+animal.ID, result.Images)
	if err != nil {
		// ストアには残っているので、ファイル保存の失敗は警告にとどめるのだ
		slog.Warn("肖像画のファイル保存に失敗しました", "animal", animal.ID, "error", err)
	}

	slog.Info("肖像画が完成したのだ", "animal", animal.String(), "prompt_length", len(prompt))
	return PortraitOutput{Animal: animal, SavedPaths: paths}, nil
}
