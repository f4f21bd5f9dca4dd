package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"palate-core/internal/adapter/client"
	"palate-core/internal/domain/entity"
	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
)

const classifyTemperature = 0.0

// Classifier is the hard gate in front of the pipeline: it judges whether a
// raw query denotes a food, normalizes it to a canonical singular English
// name and splits dish from ingredient. Results are memoized by the exact raw
// string, an in-process map in front of the persistent cache, so repeated
// queries never re-invoke the model within or across runs.
type Classifier struct {
	gen   repository.TextGenerator
	cache repository.ClassificationCache // optional persistent tier
	log   *logger.Logger

	mu   sync.RWMutex
	memo map[string]entity.ClassificationResult
}

func NewClassifier(gen repository.TextGenerator, cache repository.ClassificationCache, log *logger.Logger) *Classifier {
	return &Classifier{
		gen:   gen,
		cache: cache,
		log:   log.With("component", "classifier"),
		memo:  make(map[string]entity.ClassificationResult),
	}
}

type classifyPayload struct {
	IsSafe       *bool   `json:"is_safe"`
	FoodQuery    *string `json:"food_query"`
	IsIngredient bool    `json:"is_ingredient"`
}

func (c *Classifier) Classify(ctx context.Context, rawQuery string) (entity.ClassificationResult, error) {
	c.mu.RLock()
	result, ok := c.memo[rawQuery]
	c.mu.RUnlock()
	if ok {
		return result, nil
	}

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, rawQuery)
		if err == nil {
			c.remember(rawQuery, cached)
			return cached, nil
		}
		if !errors.Is(err, entity.ErrCacheMiss) {
			c.log.Warn("classification cache read failed", "error", err)
		}
	}

	parts, err := c.gen.GenerateText(ctx, classifyPrompt(rawQuery), classifyTemperature)
	if err != nil {
		return entity.ClassificationResult{}, fmt.Errorf("classification call: %w", err)
	}

	var payload classifyPayload
	if err := client.DecodeFirst(parts, &payload); err != nil || payload.IsSafe == nil || payload.FoodQuery == nil {
		// Fail closed: a query we cannot classify is not a food query.
		c.log.Warn("classification response unusable, failing closed", "query", rawQuery, "error", err)
		result = entity.ClassificationResult{IsSafe: false}
	} else {
		result = entity.ClassificationResult{
			IsSafe:         *payload.IsSafe,
			CanonicalQuery: *payload.FoodQuery,
			IsIngredient:   payload.IsIngredient,
		}
	}

	c.log.Info("classified query",
		"query", rawQuery,
		"is_safe", result.IsSafe,
		"food_query", result.CanonicalQuery,
		"is_ingredient", result.IsIngredient,
	)

	c.remember(rawQuery, result)
	if c.cache != nil {
		if err := c.cache.Set(ctx, rawQuery, result); err != nil {
			c.log.Warn("classification cache write failed", "error", err)
		}
	}
	return result, nil
}

func (c *Classifier) remember(rawQuery string, result entity.ClassificationResult) {
	c.mu.Lock()
	c.memo[rawQuery] = result
	c.mu.Unlock()
}

func classifyPrompt(rawQuery string) string {
	return fmt.Sprintf(
		"You have 2 tasks. First task is to check if the content is a food query. If not it is not safe. "+
			"Content: %s. Second task is to return the food query in singular english form. "+
			`So for example "pizzas" return "pizza" and "Pommes" return "Potatoe Fries". `+
			"Return only the english name in no other language. Keep the name short. "+
			"Then decide if the food is an ingredient or a dish. A dish is a food that is prepared and served as a meal, "+
			"while an ingredient is a substance used in the preparation of food. "+
			`Return a json with the following keys: "is_safe", "food_query" and "is_ingredient". `+
			`For example: {"is_safe": true, "food_query": "pizza", "is_ingredient": false}. `+
			"Answer only with the json object. Do not include any other text or explanation.",
		rawQuery,
	)
}
