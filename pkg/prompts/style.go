// Package prompts は、検証済みの属性と自由テキストから画像生成プロンプトを
// 決定的に組み立てるのだ。バリデーションはここでは行わない。呼び出し側が
// 先に safety フィルターを通しておくこと。
package prompts

import "github.com/shouni/go-doubutsu-kit/pkg/domain"

const (
	// StylePreamble は全プロンプトの先頭に置く画風定義なのだ。
	// 一語でも変えるとプロンプトの再現性（監査・再生成）が壊れるので注意。
	StylePreamble = "Children's picture-book illustration, soft watercolor textures, rounded friendly shapes, warm pastel palette, gentle storybook lighting, clean simple composition."

	// KidSafeSuffix は全プロンプトの末尾に置く視覚的セーフティ制約なのだ。
	KidSafeSuffix = "Everything must look kind, cozy and safe for small children: smiling faces, soft edges, bright daylight colors, no scary elements, no weapons, no injuries, no darkness, no text or letters in the image."

	// consistencyInstruction はシーン生成時の参照画像との整合性指示です。
	consistencyInstruction = "Keep every character's appearance exactly consistent with the supplied reference images."
)

// locationSettings は舞台タグ→情景描写の閉じた対応表なのだ。
// domain.AllLocations と1対1で対応していなければならない。
var locationSettings = map[domain.Location]string{
	domain.LocationForest:     "in a sunny friendly forest with tall green trees and little mushrooms",
	domain.LocationBeach:      "on a warm sandy beach with gentle waves and seashells",
	domain.LocationMountain:   "on a flowery mountain meadow with a soft blue sky",
	domain.LocationMeadow:     "in a wide green meadow full of daisies and butterflies",
	domain.LocationSpace:      "floating happily in friendly outer space with smiling stars and a round moon",
	domain.LocationUnderwater: "in a bright underwater garden with colorful coral and bubbles",
	domain.LocationCastle:     "in front of a cheerful fairytale castle with flags and a rainbow",
	domain.LocationGarden:     "in a cozy flower garden with a little watering can and ladybugs",
	domain.LocationSnowfield:  "in a sparkling snowy field with soft snowflakes and a snowman",
	domain.LocationTreehouse:  "around a wooden treehouse with a rope ladder and paper lanterns",
}

// LocationSetting は舞台タグに対応する情景描写を返すのだ。
// 未知のタグは素朴な汎用描写にフォールバックする。
func LocationSetting(l domain.Location) string {
	if s, ok := locationSettings[l]; ok {
		return s
	}
	return "in a happy colorful place"
}
