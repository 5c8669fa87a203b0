package ai

import (
	"context"
	"fmt"

	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/providers"
)

// PlaceholderConfidence is the confidence reported with placeholder answers
const PlaceholderConfidence = 0.85

const placeholderTemplate = `[AI Response Placeholder - Please select an AI integration to enable this feature]

Based on your symptoms: "%s"

This is where the AI would provide:
- Medical recommendations
- Safety warnings
- When to seek professional help
- Relevant health advice

Please select an AI integration to enable real AI-powered medical consultations.`

// PlaceholderGenerator answers every consultation with a fixed notice. It is
// used when no model is configured and as the fallback when the model fails.
type PlaceholderGenerator struct{}

// NewPlaceholderGenerator creates a new placeholder generator
func NewPlaceholderGenerator() providers.ConsultationGenerator {
	return &PlaceholderGenerator{}
}

// Generate returns the placeholder answer for symptoms
func (g *PlaceholderGenerator) Generate(ctx context.Context, symptoms, prompt string) (*entities.GeneratedAdvice, error) {
	return &entities.GeneratedAdvice{
		Response:        fmt.Sprintf(placeholderTemplate, symptoms),
		ConfidenceScore: PlaceholderConfidence,
	}, nil
}
