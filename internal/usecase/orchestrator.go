package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"palate-core/internal/domain/entity"
	"palate-core/internal/platform/logger"
)

// SearchOrchestrator composes the full query pipeline: classify and gate,
// then resolve the image and run the matching rating engine concurrently,
// then merge. Either branch failing fails the whole request; there is no
// partial response.
type SearchOrchestrator struct {
	classifier  *Classifier
	images      *ImageResolver
	dishes      *DishEngine
	ingredients *IngredientEngine
	log         *logger.Logger
}

func NewSearchOrchestrator(classifier *Classifier, images *ImageResolver, dishes *DishEngine, ingredients *IngredientEngine, log *logger.Logger) *SearchOrchestrator {
	return &SearchOrchestrator{
		classifier:  classifier,
		images:      images,
		dishes:      dishes,
		ingredients: ingredients,
		log:         log.With("component", "search"),
	}
}

func (s *SearchOrchestrator) Search(ctx context.Context, rawQuery string, profile entity.UserProfile) (*entity.SearchResponse, error) {
	classification, err := s.classifier.Classify(ctx, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsafeQuery, err)
	}
	if !classification.IsSafe {
		return nil, entity.ErrUnsafeQuery
	}

	name := classification.CanonicalQuery
	start := time.Now()

	// The two branches share no data; run them joined so latency is bounded
	// by the slower one. A failure in either cancels the sibling.
	var (
		imageBytes []byte
		analysis   entity.AnalysisResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		imageBytes, err = s.images.Resolve(gctx, name)
		return err
	})
	g.Go(func() error {
		var err error
		if classification.IsIngredient {
			analysis, err = s.ingredients.AnalyzeIngredient(gctx, name, profile)
		} else {
			analysis, err = s.dishes.AnalyzeDish(gctx, name, profile)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("search completed",
		"query", rawQuery,
		"name", name,
		"is_ingredient", classification.IsIngredient,
		"overall_rating", analysis.OverallRating,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &entity.SearchResponse{
		Status:            "success",
		ImageBase64:       base64.StdEncoding.EncodeToString(imageBytes),
		Name:              name,
		OverallRating:     analysis.OverallRating,
		Hints:             analysis.Hints,
		IngredientRatings: analysis.Ingredients,
		Timestamp:         time.Now().UTC(),
		IsIngredient:      classification.IsIngredient,
	}, nil
}
