package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-doubutsu-kit/examples"
	"github.com/shouni/go-doubutsu-kit/pkg/store"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

const defaultExportFile = "output/doubutsu_export.json"

// exportCmd は、どうぶつ・シーン・設定をひとつのJSONに書き出すのだ。
// APIキーはスナップショットに含まれない。おともだちに渡しても安全なのだよ。
var exportCmd = &cobra.Command{
	Use:     "export [file]",
	Short:   "ぜんぶのデータをJSONファイルに書き出すのだ。",
	Long:    "どうぶつ・シーン・設定をまとめたスナップショットを書き出すのだ。保存先はローカルのパスでも gs://... でもよいのだよ。",
	Example: "  ap-doubutsu-go export backup.json",
	Args:    cobra.MaximumNArgs(1),
	RunE:    exportCommand,
}

// importCmd は、export で書き出したJSONを読み込んで丸ごと置き換えるのだ。
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "書き出したJSONからデータを復元するのだ。",
	Long: `export コマンドで書き出したスナップショットを読み込み、いまのデータを丸ごと置き換えるのだ。
保存済みのAPIキーはインポート文書の内容に関係なくそのまま残るのだよ。
--sample をつけるとファイルのかわりに同梱のサンプルキャラクターを追加するのだ。`,
	Example: "  ap-doubutsu-go import backup.json\n  ap-doubutsu-go import --sample",
	Args:    cobra.MaximumNArgs(1),
	RunE:    importCommand,
}

var importSample bool

func init() {
	importCmd.Flags().BoolVar(&importSample, "sample", false, "同梱のサンプルキャラクターを追加するのだ。")
}

func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadRuntimeConfig(cmd)

	outputPath := defaultExportFile
	if len(args) > 0 {
		outputPath = args[0]
	}

	st, err := store.NewJSONStore(cfg.Options.DataFile)
	if err != nil {
		return fmt.Errorf("ストアの初期化に失敗したのだ: %w", err)
	}

	doc, err := st.Export()
	if err != nil {
		return fmt.Errorf("エクスポートに失敗したのだ: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("JSONへの変換に失敗したのだ: %w", err)
	}

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return fmt.Errorf("書き出し先の初期化に失敗したのだ: %w", err)
	}
	if err := writer.Write(ctx, outputPath, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("ファイルの書き込みに失敗したのだ: %w", err)
	}

	fmt.Printf("📦 書き出し完了なのだ: %s（どうぶつ %d体、シーン %d件）\n",
		outputPath, len(doc.Animals), len(doc.Scenes))
	return nil
}

func importCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadRuntimeConfig(cmd)

	st, err := store.NewJSONStore(cfg.Options.DataFile)
	if err != nil {
		return fmt.Errorf("ストアの初期化に失敗したのだ: %w", err)
	}

	if importSample {
		if len(args) > 0 {
			return fmt.Errorf("--sample とファイル指定は同時に使えないのだ")
		}
		return seedSampleAnimals(st)
	}
	if len(args) == 0 {
		return fmt.Errorf("復元するファイルか --sample を指定してほしいのだ")
	}

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	doc, err := examples.LoadExportDocument(ctx, gcsFactory, args[0])
	if err != nil {
		return fmt.Errorf("このファイルは読めない形式なのだ: %w", err)
	}

	if err := st.Import(*doc); err != nil {
		return fmt.Errorf("インポートに失敗したのだ: %w", err)
	}

	fmt.Printf("📥 復元完了なのだ: どうぶつ %d体、シーン %d件\n",
		len(doc.Animals), len(doc.Scenes))
	return nil
}

// seedSampleAnimals は同梱のサンプルキャラクターを既存データに追加するのだ。
// export 形式の置き換えとはちがって、いまのどうぶつはそのまま残るのだよ。
func seedSampleAnimals(st *store.JSONStore) error {
	animals, err := examples.LoadSampleAnimals()
	if err != nil {
		return fmt.Errorf("サンプルの読み込みに失敗したのだ: %w", err)
	}
	for _, a := range animals {
		if err := st.PutAnimal(a); err != nil {
			return fmt.Errorf("サンプルの保存に失敗したのだ: %w", err)
		}
	}
	fmt.Printf("🌱 サンプルを追加したのだ: どうぶつ %d体\n", len(animals))
	return nil
}
