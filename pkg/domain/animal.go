package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnimalMode はキャラクターの出自を区別するタグなのだ。
type AnimalMode string

const (
	// ModeImagined は「そうぞう」フローで作られたキャラクターを示します。
	ModeImagined AnimalMode = "imagined"
	// ModePhoto は「ぬいぐるみ撮影」フローで作られたキャラクターを示します。
	ModePhoto AnimalMode = "photo"
)

// Species は選択可能な動物種の閉じた列挙なのだ。
type Species string

const (
	SpeciesDog      Species = "dog"
	SpeciesCat      Species = "cat"
	SpeciesRabbit   Species = "rabbit"
	SpeciesBear     Species = "bear"
	SpeciesFox      Species = "fox"
	SpeciesPanda    Species = "panda"
	SpeciesPenguin  Species = "penguin"
	SpeciesElephant Species = "elephant"
	SpeciesOwl      Species = "owl"
	SpeciesUnicorn  Species = "unicorn"
)

// AllSpecies は UI やバリデーションが参照する表示順の一覧です。
var AllSpecies = []Species{
	SpeciesDog, SpeciesCat, SpeciesRabbit, SpeciesBear, SpeciesFox,
	SpeciesPanda, SpeciesPenguin, SpeciesElephant, SpeciesOwl, SpeciesUnicorn,
}

// Personality はキャラクターの性格タグの閉じた列挙なのだ。
type Personality string

const (
	PersonalityBrave    Personality = "brave"
	PersonalityShy      Personality = "shy"
	PersonalitySilly    Personality = "silly"
	PersonalityGentle   Personality = "gentle"
	PersonalityCurious  Personality = "curious"
	PersonalitySleepy   Personality = "sleepy"
	PersonalityCheerful Personality = "cheerful"
	PersonalityClever   Personality = "clever"
)

// AllPersonalities は選択可能な性格タグの一覧です。
var AllPersonalities = []Personality{
	PersonalityBrave, PersonalityShy, PersonalitySilly, PersonalityGentle,
	PersonalityCurious, PersonalitySleepy, PersonalityCheerful, PersonalityClever,
}

// Colors はキャラクターの色設定を保持します。
// Secondary と Markings は省略可能で、空文字列は「指定なし」を意味するのだ。
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Markings  string `json:"markings,omitempty"`
}

// Animal は子どもが定義した動物キャラクターのペルソナを保持します。
// PortraitImage と StickerImage は高々どちらか一方のみが設定されるのだ。
type Animal struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	Mode         AnimalMode  `json:"mode"`
	Name         string      `json:"name"`
	Species      Species     `json:"species"`
	Personality  Personality `json:"personality"`
	Colors       Colors      `json:"colors"`
	SpecialThing string      `json:"special_thing,omitempty"`

	// PortraitImage は生成された肖像画（base64のインライン画像データ）なのだ。
	PortraitImage string `json:"portrait_image,omitempty"`
	// StickerImage は写真由来のステッカー画像（base64）なのだ。
	StickerImage string `json:"sticker_image,omitempty"`
}

// NewAnimal は ID と作成時刻を採番した新しいキャラクターを生成します。
func NewAnimal(mode AnimalMode, name string, species Species, personality Personality, colors Colors, specialThing string) Animal {
	return Animal{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Mode:         mode,
		Name:         name,
		Species:      species,
		Personality:  personality,
		Colors:       colors,
		SpecialThing: specialThing,
	}
}

// ReferenceImage は一貫性保持のために生成APIへ渡す参照画像を返すのだ。
// 肖像画を優先し、なければステッカー、どちらも無ければ空文字列を返します。
func (a Animal) ReferenceImage() string {
	if a.PortraitImage != "" {
		return a.PortraitImage
	}
	return a.StickerImage
}

// HasReferenceImage は参照画像を持っているかどうかを返します。
func (a Animal) HasReferenceImage() bool {
	return a.ReferenceImage() != ""
}

// String はキャラクターの情報を文字列で返すのだ。
func (a Animal) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

// ValidSpecies は閉じた列挙に含まれる種かどうかを判定します。
func ValidSpecies(s Species) bool {
	for _, v := range AllSpecies {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPersonality は閉じた列挙に含まれる性格かどうかを判定します。
func ValidPersonality(p Personality) bool {
	for _, v := range AllPersonalities {
		if v == p {
			return true
		}
	}
	return false
}
