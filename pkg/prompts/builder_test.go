package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

func sampleAnimal(name string) domain.Animal {
	return domain.Animal{
		ID:          "id-" + name,
		Mode:        domain.ModeImagined,
		Name:        name,
		Species:     domain.SpeciesFox,
		Personality: domain.PersonalityCurious,
		Colors:      domain.Colors{Primary: "orange", Secondary: "white belly"},
	}
}

func TestBuildAnimalPortraitPrompt(t *testing.T) {
	t.Run("同じ入力からはバイト単位で同じプロンプトが得られること", func(t *testing.T) {
		a := sampleAnimal("Momo")
		a.SpecialThing = "a tiny red umbrella"
		p1 := BuildAnimalPortraitPrompt(a)
		p2 := BuildAnimalPortraitPrompt(a)
		if p1 != p2 {
			t.Error("プロンプトが決定的ではありません")
		}
	})

	t.Run("画風プリアンブルとセーフティサフィックスが必ず含まれること", func(t *testing.T) {
		p := BuildAnimalPortraitPrompt(sampleAnimal("Momo"))
		if !strings.HasPrefix(p, StylePreamble) {
			t.Error("プロンプトが StylePreamble で始まっていません")
		}
		if !strings.HasSuffix(p, KidSafeSuffix) {
			t.Error("プロンプトが KidSafeSuffix で終わっていません")
		}
	})

	t.Run("省略可能フィールドが無いときは節ごと落ちること", func(t *testing.T) {
		a := sampleAnimal("Momo")
		a.Colors.Markings = ""
		a.SpecialThing = ""
		p := BuildAnimalPortraitPrompt(a)
		if strings.Contains(p, "It has ") {
			t.Error("markings が無いのに模様の節が含まれています")
		}
		if strings.Contains(p, "special thing") {
			t.Error("special thing が無いのに節が含まれています")
		}
	})

	t.Run("模様ととくいなことが指定されていれば含まれること", func(t *testing.T) {
		a := sampleAnimal("Momo")
		a.Colors.Markings = "white star on the forehead"
		a.SpecialThing = "juggling acorns"
		p := BuildAnimalPortraitPrompt(a)
		if !strings.Contains(p, "white star on the forehead") {
			t.Error("模様の記述が含まれていません")
		}
		if !strings.Contains(p, "juggling acorns") {
			t.Error("とくいなことの記述が含まれていません")
		}
	})
}

func TestBuildScenePrompt(t *testing.T) {
	t.Run("参照画像を持つキャラクターの色は絶対にインライン化しないこと", func(t *testing.T) {
		withRef := sampleAnimal("Momo")
		withRef.PortraitImage = "base64data=="
		p := BuildScenePrompt([]domain.Animal{withRef}, domain.LocationForest, "having a picnic")
		if strings.Contains(p, "mainly orange") {
			t.Error("参照画像持ちのキャラクターの色がインライン化されています")
		}
		if !strings.Contains(p, "reference image 1") {
			t.Error("reference image への参照が含まれていません")
		}
	})

	t.Run("参照画像の無いキャラクターの色は必ずインライン化すること", func(t *testing.T) {
		noRef := sampleAnimal("Kiki")
		p := BuildScenePrompt([]domain.Animal{noRef}, domain.LocationBeach, "building a sandcastle")
		if !strings.Contains(p, "mainly orange, with white belly") {
			t.Errorf("色のインライン記述が見つかりません:\n%s", p)
		}
		if strings.Contains(p, "reference image") {
			t.Error("参照画像が無いのに reference image への言及があります")
		}
	})

	t.Run("3匹中2匹が肖像画持ちのとき、インライン色節は1つ、参照は2つになること", func(t *testing.T) {
		a1 := sampleAnimal("Momo")
		a1.PortraitImage = "img1=="
		a2 := sampleAnimal("Kiki")
		a2.StickerImage = "img2=="
		a3 := sampleAnimal("Hana")

		p := BuildScenePrompt([]domain.Animal{a1, a2, a3}, domain.LocationGarden, "watering flowers together")

		if got := strings.Count(p, "mainly orange"); got != 1 {
			t.Errorf("インライン色節の数が %d になっています（期待値 1）", got)
		}
		if !strings.Contains(p, "reference image 1") || !strings.Contains(p, "reference image 2") {
			t.Error("reference image 1 / 2 への参照が揃っていません")
		}
		if strings.Contains(p, "reference image 3") {
			t.Error("存在しない reference image 3 への参照があります")
		}
	})

	t.Run("説明文と舞台の描写と整合性指示が含まれること", func(t *testing.T) {
		p := BuildScenePrompt([]domain.Animal{sampleAnimal("Momo")}, domain.LocationSpace, "eating star cookies")
		if !strings.Contains(p, LocationSetting(domain.LocationSpace)) {
			t.Error("舞台の描写が含まれていません")
		}
		if !strings.Contains(p, "eating star cookies") {
			t.Error("ユーザー説明文が含まれていません")
		}
		if !strings.Contains(p, "consistent with the supplied reference images") {
			t.Error("整合性指示が含まれていません")
		}
	})

	t.Run("キャラクター記述子がセミコロンで結合されること", func(t *testing.T) {
		p := BuildScenePrompt([]domain.Animal{sampleAnimal("Momo"), sampleAnimal("Kiki")}, domain.LocationMeadow, "chasing butterflies")
		if !strings.Contains(p, "; Kiki") {
			t.Errorf("記述子が '; ' で結合されていません:\n%s", p)
		}
	})
}

func TestLocationSetting(t *testing.T) {
	t.Run("全ての舞台タグに対応する描写が登録されていること", func(t *testing.T) {
		for _, l := range domain.AllLocations {
			if _, ok := locationSettings[l]; !ok {
				t.Errorf("舞台 %q の描写が未登録です", l)
			}
		}
	})

	t.Run("未知のタグはフォールバック描写になること", func(t *testing.T) {
		if LocationSetting(domain.Location("moon-base")) != "in a happy colorful place" {
			t.Error("未知の舞台タグがフォールバックしていません")
		}
	})
}
