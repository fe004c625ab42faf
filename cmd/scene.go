package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/go-doubutsu-kit/internal/builder"
	"github.com/shouni/go-doubutsu-kit/internal/runner"
	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

// scene コマンド固有のフラグ値なのだ。
var (
	sceneTitle       string
	sceneAnimalIDs   []string
	sceneLocation    string
	sceneDescription string
)

// sceneCmd は、保存済みのキャラクターを登場させたシーン画像を生成するのだ。
var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "どうぶつたちが登場するシーン画像を生成するのだ。",
	Long: `保存済みのキャラクター（1〜3体）と舞台、やりたいことの説明から
シーンのプロンプトを組み立て、生成ゲートウェイ経由で画像を生成するのだ。
キャラクターの肖像画は参照画像として自動で添付され、見た目の一貫性が保たれるのだよ。`,
	Example: `  ap-doubutsu-go scene -a <animal-id> -l forest --description "かくれんぼをする"
  ap-doubutsu-go scene -a <id1> -a <id2> -l space --title "うちゅうのぼうけん" --description "ほしをあつめる"`,
	RunE: sceneCommand,
}

func init() {
	sceneCmd.Flags().StringVarP(&sceneTitle, "title", "t", "", "シーンのタイトルなのだ。")
	sceneCmd.Flags().StringSliceVarP(&sceneAnimalIDs, "animals", "a", nil, "登場させるキャラクターのID（カンマ区切りか複数指定、1〜3体）なのだ（必須）。")
	sceneCmd.Flags().StringVarP(&sceneLocation, "location", "l", "", "舞台（forest, beach, mountain, meadow, space, underwater, castle, garden, snowfield, treehouse）なのだ（必須）。")
	sceneCmd.Flags().StringVar(&sceneDescription, "description", "", "なにをしているところか、の説明なのだ（必須）。")
}

func sceneCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(sceneAnimalIDs) == 0 || sceneLocation == "" || sceneDescription == "" {
		return fmt.Errorf("--animals、--location、--description はぜんぶ指定してほしいのだ")
	}

	cfg := loadRuntimeConfig(cmd)
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	if err := applySettingsFlags(cmd, appCtx.Store); err != nil {
		return fmt.Errorf("設定の反映に失敗したのだ: %w", err)
	}

	sceneRunner := runner.NewSceneRunner(appCtx.Store, appCtx.Client, appCtx.Writer, opts.OutputImageDir)
	out, err := sceneRunner.Run(ctx, runner.SceneInput{
		Title:       sceneTitle,
		AnimalIDs:   sceneAnimalIDs,
		Location:    domain.Location(sceneLocation),
		Description: sceneDescription,
	})
	if err != nil {
		return err
	}

	fmt.Println("\n" + strings.Repeat("✨", 25))
	if out.Reassurance != "" {
		fmt.Printf("🌈 %s\n", out.Reassurance)
	}
	fmt.Printf("🎬 シーンが完成したのだ: %s (%s)\n", out.Scene.Title, out.Scene.ID)
	fmt.Printf("🖼️  生成された画像: %d枚\n", len(out.Scene.Images))
	for _, path := range out.SavedPaths {
		fmt.Printf("    %s\n", path)
	}
	fmt.Println(strings.Repeat("✨", 25))

	return nil
}
