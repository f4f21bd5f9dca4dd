package config

import (
	"fmt"
	"os"
)

// Config carries everything the process reads from the environment. Either a
// Gemini API key or a Vertex project/location pair must be present.
type Config struct {
	Port string

	GeminiAPIKey   string
	GoogleProject  string
	GoogleLocation string

	RedisAddr     string // optional; empty disables the persistent classification cache
	ImageBucket   string
	LocalImageDir string // optional; empty disables the local image tier

	ClassifierModel string
	AnalysisModel   string
	FallbackModel   string
	ImageModel      string
	TipModel        string

	LogMode string
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GoogleProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleLocation:  os.Getenv("GOOGLE_CLOUD_LOCATION"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ImageBucket:     os.Getenv("IMAGE_BUCKET"),
		LocalImageDir:   os.Getenv("LOCAL_IMAGE_DIR"),
		ClassifierModel: getEnv("CLASSIFIER_MODEL", "gemini-2.0-flash"),
		AnalysisModel:   getEnv("ANALYSIS_MODEL", "gemini-2.5-flash"),
		FallbackModel:   getEnv("FALLBACK_MODEL", "gemini-2.0-flash-lite"),
		ImageModel:      getEnv("IMAGE_MODEL", "gemini-2.0-flash-exp-image-generation"),
		TipModel:        getEnv("TIP_MODEL", "gemini-2.0-flash-lite"),
		LogMode:         getEnv("LOG_MODE", "dev"),
	}

	if cfg.GeminiAPIKey == "" && (cfg.GoogleProject == "" || cfg.GoogleLocation == "") {
		return Config{}, fmt.Errorf("set GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT and GOOGLE_CLOUD_LOCATION")
	}
	if cfg.ImageBucket == "" {
		return Config{}, fmt.Errorf("IMAGE_BUCKET environment variable not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
