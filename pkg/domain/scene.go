package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location はシーンの舞台を表す閉じた列挙なのだ。全10種。
type Location string

const (
	LocationForest     Location = "forest"
	LocationBeach      Location = "beach"
	LocationMountain   Location = "mountain"
	LocationMeadow     Location = "meadow"
	LocationSpace      Location = "space"
	LocationUnderwater Location = "underwater"
	LocationCastle     Location = "castle"
	LocationGarden     Location = "garden"
	LocationSnowfield  Location = "snowfield"
	LocationTreehouse  Location = "treehouse"
)

// AllLocations は選択可能な舞台の一覧です。
var AllLocations = []Location{
	LocationForest, LocationBeach, LocationMountain, LocationMeadow,
	LocationSpace, LocationUnderwater, LocationCastle, LocationGarden,
	LocationSnowfield, LocationTreehouse,
}

// MaxSceneAnimals は1シーンに登場できるキャラクター数の上限なのだ。
const MaxSceneAnimals = 3

// Scene は生成済みイラストの合成結果を保持します。
// Caption と VoiceNote（および FavoriteIndex）だけが保存後も変更可能なのだ。
type Scene struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Location  Location  `json:"location"`

	// AnimalIDs は登場キャラクターの参照（1〜3件）。作成時に実在を検証するが、
	// その後のキャラクター削除ではカスケードしないのだ。
	AnimalIDs []string `json:"animal_ids"`

	// UserDescription はフィルター済みの自由記述、Prompt は実際に生成APIへ
	// 送られた完全なプロンプト文字列なのだ（監査と再生成のために保持する）。
	UserDescription string `json:"user_description"`
	Prompt          string `json:"prompt"`

	// Images は返却された全画像（base64）を返却順のまま保持します。
	Images []string `json:"images"`

	// FavoriteIndex は Images の中で選ばれたお気に入りの添字（未選択なら nil）。
	FavoriteIndex *int   `json:"favorite_index,omitempty"`
	Caption       string `json:"caption,omitempty"`
	VoiceNote     string `json:"voice_note,omitempty"`
}

// NewScene は ID と作成時刻を採番した新しいシーンを生成します。
func NewScene(title string, location Location, animalIDs []string, description, prompt string, images []string) Scene {
	return Scene{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Title:           title,
		Location:        location,
		AnimalIDs:       animalIDs,
		UserDescription: description,
		Prompt:          prompt,
		Images:          images,
	}
}

// ValidLocation は閉じた列挙に含まれる舞台かどうかを判定します。
func ValidLocation(l Location) bool {
	for _, v := range AllLocations {
		if v == l {
			return true
		}
	}
	return false
}
