package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"palate-core/internal/adapter/api"
	"palate-core/internal/adapter/client"
	"palate-core/internal/adapter/store"
	"palate-core/internal/config"
	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
	"palate-core/internal/usecase"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logg.Sync()

	genaiClient, err := newGenAIClient(ctx, cfg)
	if err != nil {
		logg.Fatal("failed to init genai client", "error", err)
	}

	// Classification cache: in-process memo in front of Redis (optional).
	var classificationCache repository.ClassificationCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		classificationCache = store.NewRedisClassificationCache(rdb)
	} else {
		logg.Warn("REDIS_ADDR not set, classification cache will not survive restarts")
	}

	// Image store: local fast tier (optional) in front of the bucket.
	remoteImages, err := store.NewGCSStore(ctx, cfg.ImageBucket)
	if err != nil {
		logg.Fatal("failed to init image bucket", "error", err)
	}
	defer remoteImages.Close()

	var localImages repository.ObjectStore
	if cfg.LocalImageDir != "" {
		localImages, err = store.NewFSStore(cfg.LocalImageDir)
		if err != nil {
			logg.Fatal("failed to init local image dir", "error", err)
		}
	}

	classifierModel := client.NewGeminiText(genaiClient, cfg.ClassifierModel)
	analysisModel := client.NewGeminiText(genaiClient, cfg.AnalysisModel)
	fallbackModel := client.NewGeminiText(genaiClient, cfg.FallbackModel)
	tipModel := client.NewGeminiText(genaiClient, cfg.TipModel)
	imageModel := client.NewGeminiImage(genaiClient, cfg.ImageModel)

	analysisProvider := usecase.NewResilientText(analysisModel, fallbackModel, logg)

	classifier := usecase.NewClassifier(classifierModel, classificationCache, logg)
	images := usecase.NewImageResolver(imageModel, localImages, remoteImages, logg)
	dishes := usecase.NewDishEngine(analysisProvider, logg)
	ingredients := usecase.NewIngredientEngine(analysisProvider, logg)
	tips := usecase.NewTipEngine(tipModel, logg)

	orchestrator := usecase.NewSearchOrchestrator(classifier, images, dishes, ingredients, logg)

	app := fiber.New(fiber.Config{
		AppName:   "Palate Core",
		BodyLimit: 4 * 1024 * 1024,
	})

	handler := api.NewSearchHandler(orchestrator, tips, logg)
	api.SetupRouter(app, handler)

	logg.Info("server starting", "port", cfg.Port)
	logg.Fatal("server stopped", "error", app.Listen(":"+cfg.Port))
}

func newGenAIClient(ctx context.Context, cfg config.Config) (*genai.Client, error) {
	if cfg.GeminiAPIKey != "" {
		return genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
}
