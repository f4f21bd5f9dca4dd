package entity

import "time"

// ClassificationResult is produced once per raw query string and cached by
// the exact input. When IsSafe is false the other fields carry no meaning.
type ClassificationResult struct {
	IsSafe         bool   `json:"is_safe"`
	CanonicalQuery string `json:"food_query"`
	IsIngredient   bool   `json:"is_ingredient"`
}

// Ingredient is one component of a decomposed dish. RawRating is the model's
// 0 (fully compatible) to 100 (extremely incompatible) score for the
// ingredient alone; WeightedRating scales it by the ingredient's mass share:
// RawRating * GramsPer100 / 100.
type Ingredient struct {
	Name           string
	GramsPer100    float64
	RawRating      float64
	WeightedRating float64
}

// IngredientRating is the externally visible slice of an Ingredient. Raw
// per-gram ratings and explanations stay internal to the dish engine.
type IngredientRating struct {
	Name   string  `json:"ingredient_name"`
	Rating float64 `json:"rating"`
}

// Hint is a keyword-tagged single-sentence piece of advice. An analysis
// carries between one and three; sequence order is display order.
type Hint struct {
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
}

// AnalysisResult is the output of either rating engine. Ingredients is empty
// on the direct-ingredient path.
type AnalysisResult struct {
	OverallRating float64
	Hints         []Hint
	Ingredients   []IngredientRating
}

// SearchResponse is the unit returned to the caller. It is assembled per
// request and never persisted.
type SearchResponse struct {
	Status            string             `json:"status"`
	ImageBase64       string             `json:"imageBase64"`
	Name              string             `json:"name"`
	OverallRating     float64            `json:"overall_rating"`
	Hints             []Hint             `json:"text"`
	IngredientRatings []IngredientRating `json:"ingredients_rating"`
	Timestamp         time.Time          `json:"timestamp"`
	IsIngredient      bool               `json:"is_ingredient"`
}

// GeneratedPart is one part of a model response. Text-only parts carry Text;
// image parts carry raw encoded bytes plus the reported MIME type.
type GeneratedPart struct {
	Text     string
	Data     []byte
	MIMEType string
}
