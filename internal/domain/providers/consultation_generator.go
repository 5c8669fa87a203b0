package providers

import (
	"context"

	"github.com/wecare/healthtracker/internal/domain/entities"
)

// ConsultationGenerator turns a rendered prompt into health guidance
type ConsultationGenerator interface {
	Generate(ctx context.Context, symptoms, prompt string) (*entities.GeneratedAdvice, error)
}
