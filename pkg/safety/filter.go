package safety

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// 構造的な制限値なのだ。
const (
	MaxNameLength        = 30
	MaxDescriptionLength = 500
)

// CheckResult はフィルター判定の結果を保持します。
// IsAllowed が true でも、やんわりモードでは FriendlyMessage が付くことがあるのだ。
type CheckResult struct {
	IsAllowed       bool
	FriendlyMessage string
	CleanedText     string
}

// CheckContent は自由テキストをブロックリストと照合して許可/拒否を決めるのだ。
// 純粋関数で決定的、どんな文字列に対しても失敗しない。
//
// ブロック語に一致したら必ず拒否。extraGentle が true で言い換え候補が
// 登録されていれば、その具体的な置き換えを提案するメッセージを返す。
// ブロック語に当たらず extraGentle が true の場合だけ、やんわりリストとの
// 二次照合を行い、一致しても「許可＋安心メッセージ」に留めるのだ
// （拒否と安心メッセージの非対称は意図的で、ひとつの深刻度に統合してはいけない）。
func CheckContent(text string, extraGentle bool) CheckResult {
	lower := strings.ToLower(text)

	for _, bt := range blockedTerms {
		if !strings.Contains(lower, bt.Term) {
			continue
		}
		if extraGentle {
			if alt, ok := gentleAlternatives[bt.Term]; ok {
				return CheckResult{
					IsAllowed:       false,
					FriendlyMessage: fmt.Sprintf("「%s」のかわりに「%s」はどうかな？✨ もっとたのしいおはなしになるよ！", bt.Term, alt),
				}
			}
		}
		return CheckResult{
			IsAllowed:       false,
			FriendlyMessage: "うーん、そのことばはつかえないんだ🌈 もっとハッピーなことばでおしえてね！",
		}
	}

	if extraGentle {
		for _, term := range mildlyNegative {
			if strings.Contains(lower, term) {
				return CheckResult{
					IsAllowed:       true,
					FriendlyMessage: "だいじょうぶ、さいごはきっとハッピーエンドになるよ🌟",
					CleanedText:     text,
				}
			}
		}
	}

	return CheckResult{IsAllowed: true, CleanedText: text}
}

// ValidateAnimalName はキャラクター名の構造チェックを行ってから
// CheckContent へ委譲するラッパーなのだ。
func ValidateAnimalName(name string, extraGentle bool) CheckResult {
	if strings.TrimSpace(name) == "" {
		return CheckResult{
			IsAllowed:       false,
			FriendlyMessage: "おなまえをつけてあげてね！🐾",
		}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return CheckResult{
			IsAllowed:       false,
			FriendlyMessage: fmt.Sprintf("おなまえがながすぎるよ！%d もじまでにしてね✏️", MaxNameLength),
		}
	}
	return CheckContent(name, extraGentle)
}

// ValidateSceneDescription はシーン説明文の構造チェックを行ってから
// CheckContent へ委譲するラッパーなのだ。
func ValidateSceneDescription(description string, extraGentle bool) CheckResult {
	if strings.TrimSpace(description) == "" {
		return CheckResult{
			IsAllowed:       false,
			FriendlyMessage: "どんなばめんにしたいか、おしえてね！📖",
		}
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return CheckResult{
			IsAllowed:       false,
			FriendlyMessage: fmt.Sprintf("おはなしがながすぎるよ！%d もじまでにまとめてみてね✏️", MaxDescriptionLength),
		}
	}
	return CheckContent(description, extraGentle)
}
