package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/go-doubutsu-kit/internal/builder"
	"github.com/shouni/go-doubutsu-kit/internal/runner"
	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

// portrait コマンド固有のフラグ値なのだ。
var (
	portraitName        string
	portraitSpecies     string
	portraitPersonality string
	portraitPrimary     string
	portraitSecondary   string
	portraitMarkings    string
	portraitSpecial     string
)

// portraitCmd は、想像モードで新しいどうぶつキャラクターを1体作成するのだ。
var portraitCmd = &cobra.Command{
	Use:   "portrait",
	Short: "新しいどうぶつキャラクターを作成して、肖像画を生成するのだ。",
	Long: `名前・種類・せいかく・色から肖像画のプロンプトを組み立て、
生成ゲートウェイ（serve コマンドのプロセス）経由で画像を生成するのだ。
完成したキャラクターは肖像画つきでデータファイルに保存されるのだよ。`,
	Example: `  ap-doubutsu-go portrait -n ポチ -s dog -p brave --color-primary brown
  ap-doubutsu-go portrait -n ルナ -s unicorn -p gentle --color-primary white --special "ほしのステッキ"`,
	RunE: portraitCommand,
}

func init() {
	portraitCmd.Flags().StringVarP(&portraitName, "name", "n", "", "どうぶつの名前なのだ（必須）。")
	portraitCmd.Flags().StringVarP(&portraitSpecies, "species", "s", "", "種類（dog, cat, rabbit, bear, fox, panda, penguin, elephant, owl, unicorn）なのだ（必須）。")
	portraitCmd.Flags().StringVarP(&portraitPersonality, "personality", "p", "", "せいかく（brave, shy, silly, gentle, curious, sleepy, cheerful, clever）なのだ（必須）。")
	portraitCmd.Flags().StringVar(&portraitPrimary, "color-primary", "", "メインの色なのだ。")
	portraitCmd.Flags().StringVar(&portraitSecondary, "color-secondary", "", "サブの色なのだ。")
	portraitCmd.Flags().StringVar(&portraitMarkings, "color-markings", "", "もようの説明なのだ。")
	portraitCmd.Flags().StringVar(&portraitSpecial, "special", "", "とくべつなもの・すきなことなのだ。")
}

func portraitCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if portraitName == "" || portraitSpecies == "" || portraitPersonality == "" {
		return fmt.Errorf("--name、--species、--personality はぜんぶ指定してほしいのだ")
	}

	cfg := loadRuntimeConfig(cmd)
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	if err := applySettingsFlags(cmd, appCtx.Store); err != nil {
		return fmt.Errorf("設定の反映に失敗したのだ: %w", err)
	}

	portraitRunner := runner.NewPortraitRunner(appCtx.Store, appCtx.Client, appCtx.Writer, opts.OutputImageDir)
	out, err := portraitRunner.Run(ctx, runner.PortraitInput{
		Name:        portraitName,
		Species:     domain.Species(portraitSpecies),
		Personality: domain.Personality(portraitPersonality),
		Colors: domain.Colors{
			Primary:   portraitPrimary,
			Secondary: portraitSecondary,
			Markings:  portraitMarkings,
		},
		SpecialThing: portraitSpecial,
	})
	if err != nil {
		return err
	}

	fmt.Println("\n" + strings.Repeat("✨", 25))
	fmt.Printf("🐾 あたらしいなかまができたのだ: %s\n", out.Animal.String())
	for _, path := range out.SavedPaths {
		fmt.Printf("🖼️  肖像画: %s\n", path)
	}
	fmt.Println(strings.Repeat("✨", 25))
	fmt.Printf("💡 scene コマンドの --animals にこのIDを渡すと、おはなしに登場できるのだよ！\n")

	return nil
}
