package usecase

import (
	"context"
	"fmt"

	"palate-core/internal/adapter/client"
	"palate-core/internal/domain/entity"
	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
)

var fallbackIngredientHint = entity.Hint{
	Keyword: "Tip",
	Text:    "Consider consulting with a nutritionist for personalized advice about this ingredient.",
}

// IngredientEngine runs the direct path for single ingredients: a quick
// numeric-only preliminary rating decides which hint types to request, then
// one combined call returns the final rating and hints together. No
// decomposition happens on this path.
type IngredientEngine struct {
	gen repository.TextGenerator
	log *logger.Logger
}

func NewIngredientEngine(gen repository.TextGenerator, log *logger.Logger) *IngredientEngine {
	return &IngredientEngine{gen: gen, log: log.With("component", "ingredient_engine")}
}

func (e *IngredientEngine) AnalyzeIngredient(ctx context.Context, canonicalName string, profile entity.UserProfile) (entity.AnalysisResult, error) {
	preliminary, err := e.preliminaryRating(ctx, canonicalName, profile)
	if err != nil {
		return entity.AnalysisResult{}, err
	}

	prompt := fmt.Sprintf(
		"Given the user's intolerance profile: \n\n %s \n\n, analyze the ingredient: %s. "+
			"Provide a rating from 0 (fully compatible) to 100 (extremely incompatible). "+
			"Also provide 1-2 helpful hints about this ingredient (maximum 3), each as a single sentence. "+
			"Always include at least one 'Tip' hint about the ingredient or its use. ",
		profile.Describe(), canonicalName,
	)
	if preliminary > alternativeHintThreshold {
		prompt += "Since this ingredient has compatibility issues, also include an 'Alternative' or 'Replacement' hint " +
			"suggesting suitable substitutes for this ingredient. "
	}
	prompt += "Respond with a single JSON object with the following structure: " +
		`{"overall_rating": float, "text": [{"keyword": "string", "text": "string"}]}. ` +
		"Each hint must be a dict with a 'keyword' (such as 'Tip', 'Did you know', 'Care', 'Alternative', 'Replacement', etc.) and a 'text' field (the single-sentence tip). " +
		"Example: " +
		`{"overall_rating": 25.0, "text": [{"keyword": "Tip", "text": "This ingredient is best used in moderation."}, {"keyword": "Alternative", "text": "You can replace this with a lactose-free alternative."}]}. ` +
		"Do not include any other text or explanation."

	parts, err := e.gen.GenerateText(ctx, prompt, ratingTemperature)
	if err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("ingredient analysis call: %w", err)
	}

	var payload struct {
		OverallRating *float64      `json:"overall_rating"`
		Text          []entity.Hint `json:"text"`
	}
	if err := client.DecodeFirst(parts, &payload); err != nil || payload.OverallRating == nil || len(payload.Text) == 0 {
		// Total parse failure: the preliminary rating and a default hint are
		// still a usable answer.
		e.log.Warn("ingredient analysis response unusable, using preliminary rating", "ingredient", canonicalName, "error", err)
		return entity.AnalysisResult{
			OverallRating: preliminary,
			Hints:         []entity.Hint{fallbackIngredientHint},
			Ingredients:   []entity.IngredientRating{},
		}, nil
	}

	return entity.AnalysisResult{
		OverallRating: clampRating(*payload.OverallRating),
		Hints:         normalizeHints(payload.Text, fallbackIngredientHint),
		Ingredients:   []entity.IngredientRating{},
	}, nil
}

// preliminaryRating is a cheap numeric-only probe whose sole purpose is to
// decide whether the combined call must request a substitute hint.
func (e *IngredientEngine) preliminaryRating(ctx context.Context, ingredient string, profile entity.UserProfile) (float64, error) {
	prompt := fmt.Sprintf(
		"Given the user's intolerance profile: \n\n %s \n\n, "+
			"rate the compatibility of %s from 0 (fully compatible) to 100 (extremely incompatible). "+
			"Respond with only a number.",
		profile.Describe(), ingredient,
	)

	parts, err := e.gen.GenerateText(ctx, prompt, ratingTemperature)
	if err != nil {
		return 0, fmt.Errorf("preliminary rating call: %w", err)
	}

	rating, ok := client.FirstNumber(parts)
	if !ok {
		e.log.Warn("preliminary rating response carried no number, defaulting to 0", "ingredient", ingredient)
		return 0, nil
	}
	return clampRating(rating), nil
}
