package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

// BuildAnimalPortraitPrompt はキャラクターの属性から肖像画プロンプトを組み立てます。
// 同じ入力からは必ずバイト単位で同じ文字列が得られるのだ。
func BuildAnimalPortraitPrompt(animal domain.Animal) string {
	var sb strings.Builder
	sb.WriteString(StylePreamble)
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("A portrait of %s, a %s %s.", animal.Name, animal.Personality, animal.Species))
	if animal.Colors.Primary != "" {
		sb.WriteString(" ")
		sb.WriteString(colorClause(animal))
	}

	// 省略可能フィールドは、無いときに節ごと落とすのだ。
	// 「with markings」だけが宙に浮くようなプロンプトを作ってはいけない。
	if animal.Colors.Markings != "" {
		sb.WriteString(fmt.Sprintf(" It has %s.", animal.Colors.Markings))
	}
	if animal.SpecialThing != "" {
		sb.WriteString(fmt.Sprintf(" Its special thing: %s.", animal.SpecialThing))
	}

	sb.WriteString("\n\n")
	sb.WriteString(KidSafeSuffix)
	return sb.String()
}

// BuildScenePrompt は登場キャラクター・舞台・検証済みの説明文から
// シーンプロンプトを組み立てます。
//
// 参照画像（肖像画かステッカー）を持つキャラクターは色を文章で再指定せず、
// 「reference image N」への参照に委ねるのだ。文章と画像で矛盾した指示を
// モデルに与えないための、ここがいちばん大事な設計ポイントなのだよ。
func BuildScenePrompt(animals []domain.Animal, location domain.Location, description string) string {
	var sb strings.Builder
	sb.WriteString(StylePreamble)
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("A scene %s.", LocationSetting(location)))
	sb.WriteString("\n")

	descriptors := make([]string, 0, len(animals))
	refIndex := 0
	for _, a := range animals {
		if a.HasReferenceImage() {
			refIndex++
			descriptors = append(descriptors, fmt.Sprintf("%s, a %s %s, shown in reference image %d", a.Name, a.Personality, a.Species, refIndex))
			continue
		}
		d := fmt.Sprintf("%s, a %s %s", a.Name, a.Personality, a.Species)
		if c := inlineColors(a); c != "" {
			d += ", " + c
		}
		descriptors = append(descriptors, d)
	}
	sb.WriteString("Characters: ")
	sb.WriteString(strings.Join(descriptors, "; "))
	sb.WriteString(".\n")

	sb.WriteString("What is happening: ")
	sb.WriteString(description)
	sb.WriteString("\n")
	sb.WriteString(consistencyInstruction)

	sb.WriteString("\n\n")
	sb.WriteString(KidSafeSuffix)
	return sb.String()
}

// colorClause は肖像画用の色描写（完全な文）を返すのだ。
func colorClause(a domain.Animal) string {
	if a.Colors.Secondary != "" {
		return fmt.Sprintf("Its fur is mainly %s with %s.", a.Colors.Primary, a.Colors.Secondary)
	}
	return fmt.Sprintf("Its fur is %s.", a.Colors.Primary)
}

// inlineColors はシーン用のインライン色描写を返すのだ。
// 参照画像を持たないキャラクターにだけ使われる。色が未指定なら空文字列を返す。
func inlineColors(a domain.Animal) string {
	var parts []string
	if a.Colors.Primary != "" {
		parts = append(parts, fmt.Sprintf("mainly %s", a.Colors.Primary))
	}
	if a.Colors.Secondary != "" {
		parts = append(parts, fmt.Sprintf("with %s", a.Colors.Secondary))
	}
	if a.Colors.Markings != "" {
		parts = append(parts, a.Colors.Markings)
	}
	return strings.Join(parts, ", ")
}
