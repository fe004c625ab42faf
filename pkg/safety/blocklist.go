// Package safety は、子どもが入力した自由テキストを生成プロンプトに載せる前に
// 検査するコンテンツフィルターを提供するのだ。判定は純粋関数で、I/Oは一切行わない。
package safety

// Category はブロック語が属する5分類なのだ。
type Category string

const (
	CategoryViolence  Category = "violence"
	CategoryScary     Category = "scary"
	CategoryRomantic  Category = "romantic"
	CategoryNegative  Category = "negative"
	CategorySubstance Category = "substance"
)

// blockedTerm はブロック語1件の定義です。Term は必ず小文字で登録すること。
type blockedTerm struct {
	Term     string
	Category Category
}

// blockedTerms は起動時に一度だけ構築される不変のブロックリストなのだ。
// 大文字小文字を無視した部分一致で照合され、先に並んでいるものが勝つ。
var blockedTerms = []blockedTerm{
	// 暴力
	{"fight", CategoryViolence},
	{"fighting", CategoryViolence},
	{"kill", CategoryViolence},
	{"punch", CategoryViolence},
	{"kick", CategoryViolence},
	{"hurt", CategoryViolence},
	{"weapon", CategoryViolence},
	{"gun", CategoryViolence},
	{"sword", CategoryViolence},
	{"knife", CategoryViolence},
	{"blood", CategoryViolence},
	{"war", CategoryViolence},
	{"attack", CategoryViolence},
	{"bite", CategoryViolence},

	// こわいもの・ホラー
	{"scary", CategoryScary},
	{"horror", CategoryScary},
	{"ghost", CategoryScary},
	{"monster", CategoryScary},
	{"zombie", CategoryScary},
	{"nightmare", CategoryScary},
	{"demon", CategoryScary},
	{"skeleton", CategoryScary},
	{"haunted", CategoryScary},

	// 恋愛・不適切
	{"kiss", CategoryRomantic},
	{"kissing", CategoryRomantic},
	{"naked", CategoryRomantic},
	{"sexy", CategoryRomantic},
	{"romance", CategoryRomantic},
	{"boyfriend", CategoryRomantic},
	{"girlfriend", CategoryRomantic},

	// 過度なネガティブ感情
	{"hate", CategoryNegative},
	{"die", CategoryNegative},
	{"dead", CategoryNegative},
	{"death", CategoryNegative},
	{"stupid", CategoryNegative},
	{"cry forever", CategoryNegative},
	{"nobody loves", CategoryNegative},
	{"worthless", CategoryNegative},

	// 危険物質
	{"beer", CategorySubstance},
	{"wine", CategorySubstance},
	{"drunk", CategorySubstance},
	{"cigarette", CategorySubstance},
	{"smoking", CategorySubstance},
	{"drug", CategorySubstance},
	{"poison", CategorySubstance},
}

// gentleAlternatives は、エクストラやさしいモードで提案する置き換え語なのだ。
// 登録があるブロック語だけが具体的な言い換えメッセージを受け取れる。
var gentleAlternatives = map[string]string{
	"fight":    "play",
	"fighting": "playing",
	"punch":    "high-five",
	"kick":     "dance",
	"attack":   "surprise",
	"monster":  "friendly dragon",
	"ghost":    "fairy",
	"scary":    "exciting",
	"hate":     "don't like yet",
	"sword":    "magic wand",
	"bite":     "nibble snacks",
}

// mildlyNegative は「やんわり寄り添う」対象の語なのだ。
// これは拒否リストではなく、エクストラやさしいモードでのみ参照されて、
// 許可しつつ安心メッセージを添えるためだけに使われる。
var mildlyNegative = []string{
	"lost",
	"alone",
	"lonely",
	"dark",
	"storm",
	"stormy",
	"sad",
	"rain",
	"afraid",
}
