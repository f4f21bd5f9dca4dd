package usecase

import (
	"context"
	"fmt"
	"strings"

	"palate-core/internal/domain/entity"
	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
)

const (
	// The one open-ended call in the system; high temperature on purpose.
	tipTemperature = 1.5

	tipLeadIn = "Did you know "
)

// TipEngine produces a daily "did you know" tip personalized to the profile.
// The model is forced to open with a fixed lead-in which is stripped before
// the tip is returned.
type TipEngine struct {
	gen repository.TextGenerator
	log *logger.Logger
}

func NewTipEngine(gen repository.TextGenerator, log *logger.Logger) *TipEngine {
	return &TipEngine{gen: gen, log: log.With("component", "tip_engine")}
}

func (e *TipEngine) DailyTip(ctx context.Context, profile entity.UserProfile) (string, error) {
	prompt := fmt.Sprintf(
		"Given the user's intolerance profile: \n\n %s \n\n, generate a daily tip for the user. "+
			"It must start with 'Did you know that '",
		profile.Describe(),
	)

	parts, err := e.gen.GenerateText(ctx, prompt, tipTemperature)
	if err != nil {
		return "", fmt.Errorf("tip call: %w", err)
	}

	text := strings.TrimSpace(parts[0])
	if _, after, found := strings.Cut(text, tipLeadIn); found {
		return strings.TrimSpace(after), nil
	}
	// Model skipped the lead-in; the tip is still usable as-is.
	e.log.Warn("tip response missing lead-in phrase")
	return text, nil
}
