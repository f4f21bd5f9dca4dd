package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"palate-core/internal/adapter/client"
	"palate-core/internal/domain/entity"
	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
)

const (
	ratingTemperature = 0.0

	// Ratings run from 0 (fully compatible) to 100 (extremely incompatible),
	// the same direction everywhere in the system. Above this mean the hint
	// call must offer a substitute.
	alternativeHintThreshold = 60.0
)

var fallbackDishHint = entity.Hint{
	Keyword: "Tip",
	Text:    "Consider consulting with a nutritionist for personalized advice about this dish.",
}

// DishEngine runs the dish path: decompose the dish into weighted
// ingredients, rate each one against the profile, derive weighted ratings,
// ask for one holistic rating and finish with hints. The stages are strictly
// sequential since each consumes the previous stage's output.
type DishEngine struct {
	gen repository.TextGenerator
	log *logger.Logger
}

func NewDishEngine(gen repository.TextGenerator, log *logger.Logger) *DishEngine {
	return &DishEngine{gen: gen, log: log.With("component", "dish_engine")}
}

type decomposedIngredient struct {
	GramsPer100 float64 `json:"g_100"`
}

type ratedIngredient struct {
	Rating      float64 `json:"rating"`
	Explanation string  `json:"explanation"`
}

func (e *DishEngine) AnalyzeDish(ctx context.Context, canonicalName string, profile entity.UserProfile) (entity.AnalysisResult, error) {
	ingredients, err := e.decompose(ctx, canonicalName)
	if err != nil {
		return entity.AnalysisResult{}, err
	}

	if len(ingredients) == 0 {
		// Nothing to rate: zero overall, but the hint policy still applies.
		hints := e.hints(ctx, canonicalName, nil, profile, 0)
		return entity.AnalysisResult{OverallRating: 0, Hints: hints, Ingredients: []entity.IngredientRating{}}, nil
	}

	ratings, err := e.rateIngredients(ctx, ingredients, profile)
	if err != nil {
		return entity.AnalysisResult{}, err
	}

	var meanRating float64
	for i := range ingredients {
		rated, ok := ratings[ingredients[i].Name]
		if !ok {
			rated = ratedIngredient{} // missing from the map defaults to 0
		}
		ingredients[i].RawRating = rated.Rating
		ingredients[i].WeightedRating = rated.Rating * ingredients[i].GramsPer100 / 100
		meanRating += rated.Rating
	}
	meanRating /= float64(len(ingredients))

	overall := e.overallRating(ctx, ingredients, profile, meanRating)
	hints := e.hints(ctx, canonicalName, ingredients, profile, meanRating)

	exposed := make([]entity.IngredientRating, 0, len(ingredients))
	for _, ing := range ingredients {
		exposed = append(exposed, entity.IngredientRating{Name: ing.Name, Rating: ing.WeightedRating})
	}

	return entity.AnalysisResult{
		OverallRating: overall,
		Hints:         hints,
		Ingredients:   exposed,
	}, nil
}

// decompose asks for the dish's common ingredients and their estimated grams
// per 100g. An unparseable answer means zero ingredients, not an error.
func (e *DishEngine) decompose(ctx context.Context, dishName string) ([]entity.Ingredient, error) {
	prompt := fmt.Sprintf(
		"List common ingredients for %s and their estimated grams per 100g of the whole dish. "+
			"Respond as a single JSON object where each key is the ingredient name and the value is its grams per 100g, using the key 'g_100'. "+
			"For example, for 'spaghetti carbonara', the response should be: "+
			`{"spaghetti": {"g_100": 40}, "egg": {"g_100": 20}, "bacon": {"g_100": 20}, "cheese": {"g_100": 20}}. `+
			"Do not include any other text or explanation.",
		dishName,
	)

	parts, err := e.gen.GenerateText(ctx, prompt, ratingTemperature)
	if err != nil {
		return nil, fmt.Errorf("ingredient decomposition call: %w", err)
	}

	decomposed := map[string]decomposedIngredient{}
	if err := client.DecodeFirst(parts, &decomposed); err != nil {
		e.log.Warn("decomposition response unusable, treating dish as empty", "dish", dishName, "error", err)
		return nil, nil
	}

	ingredients := make([]entity.Ingredient, 0, len(decomposed))
	for name, d := range decomposed {
		if d.GramsPer100 < 0 {
			d.GramsPer100 = 0
		}
		ingredients = append(ingredients, entity.Ingredient{Name: name, GramsPer100: d.GramsPer100})
	}
	// Map iteration order is random; keep downstream prompts reproducible.
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].Name < ingredients[j].Name })
	return ingredients, nil
}

func (e *DishEngine) rateIngredients(ctx context.Context, ingredients []entity.Ingredient, profile entity.UserProfile) (map[string]ratedIngredient, error) {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}

	prompt := fmt.Sprintf(
		"Given the user's intolerance profile: \n\n %s \n\n, rate the compatibility of each ingredient below. "+
			"Only consider intolerances the user actually has; ignore all others. "+
			"Ingredients: %s. "+
			"For each ingredient, provide a rating from 0 (fully compatible) to 100 (extremely incompatible), along with a brief explanation. "+
			"Respond with a single JSON object mapping each ingredient name to an object with 'rating' and 'explanation' fields. "+
			`Example: {"apple": {"rating": 0.0, "explanation": "fully compatible"}, "banana": {"rating": 50.0, "explanation": "moderately incompatible"}}. `+
			"Do not include any other text or explanation.",
		profile.Describe(), names,
	)

	parts, err := e.gen.GenerateText(ctx, prompt, ratingTemperature)
	if err != nil {
		return nil, fmt.Errorf("ingredient rating call: %w", err)
	}

	ratings := map[string]ratedIngredient{}
	if err := client.DecodeFirst(parts, &ratings); err != nil {
		e.log.Warn("ingredient rating response unusable, defaulting all to 0", "error", err)
		return map[string]ratedIngredient{}, nil
	}
	return ratings, nil
}

// overallRating asks the model for one holistic rating over the full
// breakdown. When that fails it falls back to the arithmetic mean of the raw
// per-ingredient ratings, deliberately unweighted.
func (e *DishEngine) overallRating(ctx context.Context, ingredients []entity.Ingredient, profile entity.UserProfile, meanRating float64) float64 {
	prompt := fmt.Sprintf(
		"Given the following dish ingredients and their analysis: %s, "+
			"and the user's intolerance profile: \n\n %s \n\n, "+
			"predict an overall compatibility rating for the dish from 0 (fully compatible) to 100 (extremely incompatible). "+
			`Respond with a single JSON object: {"overall_rating": float}. `+
			"Do not include any other text or explanation.",
		ingredientBreakdown(ingredients), profile.Describe(),
	)

	parts, err := e.gen.GenerateText(ctx, prompt, ratingTemperature)
	if err != nil {
		e.log.Warn("overall rating call failed, using mean of ingredient ratings", "error", err)
		return meanRating
	}

	var payload struct {
		OverallRating *float64 `json:"overall_rating"`
	}
	if err := client.DecodeFirst(parts, &payload); err != nil || payload.OverallRating == nil {
		e.log.Warn("overall rating response unusable, using mean of ingredient ratings", "error", err)
		return meanRating
	}
	return clampRating(*payload.OverallRating)
}

func (e *DishEngine) hints(ctx context.Context, dishName string, ingredients []entity.Ingredient, profile entity.UserProfile, meanRating float64) []entity.Hint {
	prompt := fmt.Sprintf(
		"Given the dish '%s' and its ingredients analysis: %s, "+
			"and the user's intolerance profile: \n\n %s \n\n, "+
			"provide 1-2 helpful hints about this dish (maximum 3), each as a single sentence. "+
			"Always include at least one 'Tip' hint about the dish or its preparation. ",
		dishName, ingredientBreakdown(ingredients), profile.Describe(),
	)
	if meanRating > alternativeHintThreshold {
		prompt += "Since this dish has compatibility issues, also include an 'Alternative' or 'Replacement' hint " +
			"suggesting suitable substitutes for problematic ingredients. "
	}
	prompt += `Respond with a single JSON object with the following structure: {"text": [{"keyword": "string", "text": "string"}]}. ` +
		"Each hint must be a dict with a 'keyword' (such as 'Tip', 'Did you know', 'Care', 'Alternative', 'Replacement', etc.) and a 'text' field (the single-sentence tip). " +
		"Do not include any other text or explanation."

	parts, err := e.gen.GenerateText(ctx, prompt, ratingTemperature)
	if err != nil {
		e.log.Warn("hint call failed, using fallback hint", "error", err)
		return []entity.Hint{fallbackDishHint}
	}

	var payload struct {
		Text []entity.Hint `json:"text"`
	}
	if err := client.DecodeFirst(parts, &payload); err != nil {
		e.log.Warn("hint response unusable, using fallback hint", "error", err)
		return []entity.Hint{fallbackDishHint}
	}
	return normalizeHints(payload.Text, fallbackDishHint)
}

func ingredientBreakdown(ingredients []entity.Ingredient) string {
	breakdown := make(map[string]map[string]float64, len(ingredients))
	for _, ing := range ingredients {
		breakdown[ing.Name] = map[string]float64{
			"g_100":           ing.GramsPer100,
			"rating":          ing.RawRating,
			"weighted_rating": ing.WeightedRating,
		}
	}
	data, err := json.Marshal(breakdown)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// normalizeHints enforces the hint policy on model output: drop empty
// entries, cap at three, and guarantee at least one "Tip" hint.
func normalizeHints(hints []entity.Hint, fallback entity.Hint) []entity.Hint {
	cleaned := make([]entity.Hint, 0, len(hints))
	firstTip := -1
	for _, h := range hints {
		if h.Text == "" {
			continue
		}
		if h.Keyword == "" {
			h.Keyword = "Tip"
		}
		if h.Keyword == "Tip" && firstTip < 0 {
			firstTip = len(cleaned)
		}
		cleaned = append(cleaned, h)
	}
	if len(cleaned) == 0 {
		return []entity.Hint{fallback}
	}
	if firstTip < 0 {
		cleaned = append([]entity.Hint{fallback}, cleaned...)
		firstTip = 0
	}
	if len(cleaned) > 3 {
		// The sole Tip may sit past the cap; keep it in the last slot.
		if firstTip > 2 {
			cleaned[2] = cleaned[firstTip]
		}
		cleaned = cleaned[:3]
	}
	return cleaned
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
