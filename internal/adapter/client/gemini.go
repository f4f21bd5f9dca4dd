package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"palate-core/internal/domain/entity"
)

// GeminiText wraps one text model of a shared genai client.
type GeminiText struct {
	client *genai.Client
	model  string
}

func NewGeminiText(c *genai.Client, model string) *GeminiText {
	return &GeminiText{client: c, model: model}
}

func (g *GeminiText) GenerateText(ctx context.Context, prompt string, temperature float32) ([]string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(temperature),
		ResponseModalities: []string{"TEXT"},
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini text generation (%s): %w", g.model, err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, entity.ErrNoTextParts
	}

	var parts []string
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	if len(parts) == 0 {
		return nil, entity.ErrNoTextParts
	}
	return parts, nil
}

// GeminiImage wraps an image-capable model. Responses may interleave text and
// image parts; all of them are returned so the caller can apply its own
// selection rule.
type GeminiImage struct {
	client *genai.Client
	model  string
}

func NewGeminiImage(c *genai.Client, model string) *GeminiImage {
	return &GeminiImage{client: c, model: model}
}

func (g *GeminiImage) GenerateImage(ctx context.Context, prompt string) ([]entity.GeneratedPart, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini image generation (%s): %w", g.model, err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, nil
	}

	var parts []entity.GeneratedPart
	for _, p := range result.Candidates[0].Content.Parts {
		part := entity.GeneratedPart{Text: p.Text}
		if p.InlineData != nil {
			part.Data = p.InlineData.Data
			part.MIMEType = p.InlineData.MIMEType
		}
		parts = append(parts, part)
	}
	return parts, nil
}
