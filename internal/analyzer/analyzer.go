// Package analyzer suggests a name, category and value for an uploaded
// image. There is no image understanding involved: the suggestion is a
// deterministic lookup keyed by a rolling hash of the payload, so the
// same bytes always produce the same result.
package analyzer

import "strings"

type Result struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	EstimatedValue int    `json:"estimatedValue"`
	Confidence     int    `json:"confidence"`
}

type item struct {
	name       string
	nameJA     string
	category   string
	value      int
	confidence int
}

// catalog order is significant, the hash indexes into it.
var catalog = [...]item{
	{"MacBook Pro", "MacBook Pro", "Electronics", 280000, 92},
	{"iPhone", "iPhone", "Electronics", 120000, 95},
	{"Digital Camera", "デジタルカメラ", "Electronics", 45000, 88},
	{"Wristwatch", "腕時計", "Jewelry", 150000, 90},
	{"Office Chair", "オフィスチェア", "Furniture", 80000, 85},
	{"Handbag", "ハンドバッグ", "Fashion", 35000, 87},
	{"Bicycle", "自転車", "Sports", 65000, 89},
	{"Game Console", "ゲーム機", "Electronics", 55000, 93},
	{"Table", "テーブル", "Furniture", 45000, 87},
	{"Laptop", "ノートパソコン", "Electronics", 180000, 91},
	{"Smartphone", "スマートフォン", "Electronics", 95000, 94},
	{"Headphones", "ヘッドフォン", "Electronics", 25000, 89},
	{"Bag", "バッグ", "Fashion", 28000, 86},
	{"Shoes", "靴", "Fashion", 18000, 88},
	{"Book", "本", "Other", 1500, 85},
}

const (
	MinValue      = 1000
	MinConfidence = 70
	MaxConfidence = 100
)

// Hash is the 32-bit polynomial rolling hash h = h*31 + b, wrapping on
// overflow like a JavaScript `hash & hash` loop over char codes.
func Hash(data []byte) int32 {
	var h int32
	for _, b := range data {
		h = h*31 + int32(b)
	}
	return h
}

// Analyze maps data to a catalog suggestion. lang "ja" selects the
// Japanese display names; any other value falls back to English.
func Analyze(data []byte, lang string) Result {
	abs := int64(Hash(data))
	if abs < 0 {
		abs = -abs
	}

	it := catalog[abs%int64(len(catalog))]

	variance := int(abs%20000) - 10000
	confidenceVariance := int(abs%10) - 5

	name := it.name
	if IsJapanese(lang) {
		name = it.nameJA
	}

	return Result{
		Name:           name,
		Category:       it.category,
		EstimatedValue: max(MinValue, it.value+variance),
		Confidence:     min(MaxConfidence, max(MinConfidence, it.confidence+confidenceVariance)),
	}
}

// IsJapanese reports whether a lang tag or Accept-Language value asks
// for Japanese names.
func IsJapanese(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	return lang == "ja" || strings.HasPrefix(lang, "ja-") || strings.HasPrefix(lang, "ja;") || strings.HasPrefix(lang, "ja,")
}
