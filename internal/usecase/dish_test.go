package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"palate-core/internal/domain/entity"
	"palate-core/internal/platform/logger"
)

// scriptDishGen answers the four dish-path prompts by keyword.
func scriptDishGen(t *testing.T, decompose, ratings, overall, hints string) *textGenStub {
	t.Helper()
	return &textGenStub{fn: func(prompt string, temperature float32) ([]string, error) {
		if temperature != 0 {
			t.Errorf("dish path must use temperature 0, got %v", temperature)
		}
		switch {
		case strings.Contains(prompt, "List common ingredients"):
			return []string{decompose}, nil
		case strings.Contains(prompt, "rate the compatibility of each ingredient"):
			return []string{ratings}, nil
		case strings.Contains(prompt, "predict an overall compatibility rating"):
			return []string{overall}, nil
		case strings.Contains(prompt, "helpful hints"):
			return []string{hints}, nil
		}
		t.Errorf("unexpected prompt: %s", prompt)
		return nil, errors.New("unexpected prompt")
	}}
}

func TestAnalyzeDishWeightedRatings(t *testing.T) {
	gen := scriptDishGen(t,
		`{"cheese": {"g_100": 40}, "flour": {"g_100": 0}}`,
		`{"cheese": {"rating": 50, "explanation": "lactose"}, "flour": {"rating": 80, "explanation": "gluten"}}`,
		`{"overall_rating": 55}`,
		`{"text": [{"keyword": "Tip", "text": "Ask for lactose-free cheese."}]}`,
	)
	e := NewDishEngine(gen, logger.NewNop())

	res, err := e.AnalyzeDish(context.Background(), "pizza", entity.UserProfile{Intolerances: []string{"lactose"}})
	if err != nil {
		t.Fatalf("AnalyzeDish: %v", err)
	}

	byName := map[string]float64{}
	for _, ing := range res.Ingredients {
		byName[ing.Name] = ing.Rating
	}
	if got := byName["cheese"]; got != 20.0 {
		t.Fatalf("cheese weighted rating: want 20.0 got %v", got)
	}
	if got := byName["flour"]; got != 0.0 {
		t.Fatalf("flour weighted rating with g_100=0: want 0 got %v", got)
	}
	if res.OverallRating != 55 {
		t.Fatalf("overall rating: want 55 got %v", res.OverallRating)
	}
}

func TestAnalyzeDishOverallFallbackIsSimpleMean(t *testing.T) {
	gen := scriptDishGen(t,
		`{"a": {"g_100": 10}, "b": {"g_100": 90}}`,
		`{"a": {"rating": 80, "explanation": ""}, "b": {"rating": 20, "explanation": ""}}`,
		"model refused to answer with numbers",
		`{"text": [{"keyword": "Tip", "text": "Go easy on it."}]}`,
	)
	e := NewDishEngine(gen, logger.NewNop())

	res, err := e.AnalyzeDish(context.Background(), "stew", entity.UserProfile{})
	if err != nil {
		t.Fatalf("AnalyzeDish: %v", err)
	}
	// Unweighted mean of 80 and 20, not the grams-weighted variant.
	if res.OverallRating != 50.0 {
		t.Fatalf("fallback overall: want 50.0 got %v", res.OverallRating)
	}
}

func TestAnalyzeDishMissingIngredientRatingDefaultsToZero(t *testing.T) {
	gen := scriptDishGen(t,
		`{"salt": {"g_100": 2}, "water": {"g_100": 98}}`,
		`{"salt": {"rating": 10, "explanation": ""}}`,
		`{"overall_rating": 5}`,
		`{"text": [{"keyword": "Tip", "text": "Stay hydrated."}]}`,
	)
	e := NewDishEngine(gen, logger.NewNop())

	res, err := e.AnalyzeDish(context.Background(), "broth", entity.UserProfile{})
	if err != nil {
		t.Fatalf("AnalyzeDish: %v", err)
	}
	for _, ing := range res.Ingredients {
		if ing.Name == "water" && ing.Rating != 0 {
			t.Fatalf("missing rating must default to 0, got %v", ing.Rating)
		}
	}
}

func TestAnalyzeDishEmptyDecomposition(t *testing.T) {
	gen := scriptDishGen(t,
		"no json in sight",
		"", "",
		`{"text": [{"keyword": "Tip", "text": "Try a simpler query."}]}`,
	)
	e := NewDishEngine(gen, logger.NewNop())

	res, err := e.AnalyzeDish(context.Background(), "mystery dish", entity.UserProfile{})
	if err != nil {
		t.Fatalf("empty decomposition must not error: %v", err)
	}
	if res.OverallRating != 0 {
		t.Fatalf("overall for empty dish: want 0 got %v", res.OverallRating)
	}
	if len(res.Ingredients) != 0 {
		t.Fatalf("ingredients: want none got %v", res.Ingredients)
	}
	assertHintPolicy(t, res.Hints)
}

func TestAnalyzeDishHintFallback(t *testing.T) {
	gen := scriptDishGen(t,
		`{"cheese": {"g_100": 100}}`,
		`{"cheese": {"rating": 90, "explanation": "lactose"}}`,
		`{"overall_rating": 90}`,
		"hints went sideways",
	)
	e := NewDishEngine(gen, logger.NewNop())

	res, err := e.AnalyzeDish(context.Background(), "fondue", entity.UserProfile{Intolerances: []string{"lactose"}})
	if err != nil {
		t.Fatalf("AnalyzeDish: %v", err)
	}
	assertHintPolicy(t, res.Hints)
}

func TestAnalyzeDishRequestsAlternativeAboveThreshold(t *testing.T) {
	sawAlternative := false
	gen := &textGenStub{fn: func(prompt string, _ float32) ([]string, error) {
		switch {
		case strings.Contains(prompt, "List common ingredients"):
			return []string{`{"cheese": {"g_100": 100}}`}, nil
		case strings.Contains(prompt, "rate the compatibility of each ingredient"):
			return []string{`{"cheese": {"rating": 90, "explanation": ""}}`}, nil
		case strings.Contains(prompt, "predict an overall compatibility rating"):
			return []string{`{"overall_rating": 90}`}, nil
		case strings.Contains(prompt, "helpful hints"):
			sawAlternative = strings.Contains(prompt, "'Alternative' or 'Replacement'")
			return []string{`{"text": [{"keyword": "Tip", "text": "t"}, {"keyword": "Alternative", "text": "a"}]}`}, nil
		}
		return nil, errors.New("unexpected prompt")
	}}
	e := NewDishEngine(gen, logger.NewNop())

	if _, err := e.AnalyzeDish(context.Background(), "fondue", entity.UserProfile{}); err != nil {
		t.Fatalf("AnalyzeDish: %v", err)
	}
	if !sawAlternative {
		t.Fatal("mean rating 90 must request an Alternative/Replacement hint")
	}
}

func TestNormalizeHintsKeepsTipWhenCapping(t *testing.T) {
	tests := []struct {
		name string
		in   []entity.Hint
	}{
		{"tip after the cap", []entity.Hint{
			{Keyword: "Care", Text: "c"},
			{Keyword: "Alternative", Text: "a"},
			{Keyword: "Did you know", Text: "d"},
			{Keyword: "Tip", Text: "t"},
		}},
		{"tip inside the cap", []entity.Hint{
			{Keyword: "Tip", Text: "t"},
			{Keyword: "Care", Text: "c"},
			{Keyword: "Alternative", Text: "a"},
			{Keyword: "Replacement", Text: "r"},
		}},
		{"no tip at all", []entity.Hint{
			{Keyword: "Care", Text: "c"},
			{Keyword: "Alternative", Text: "a"},
			{Keyword: "Replacement", Text: "r"},
			{Keyword: "Did you know", Text: "d"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeHints(tt.in, fallbackDishHint)
			assertHintPolicy(t, got)
		})
	}
}

func assertHintPolicy(t *testing.T, hints []entity.Hint) {
	t.Helper()
	if len(hints) < 1 || len(hints) > 3 {
		t.Fatalf("hint count out of [1,3]: %v", hints)
	}
	for _, h := range hints {
		if h.Keyword == "Tip" {
			return
		}
	}
	t.Fatalf("no Tip hint present: %v", hints)
}
