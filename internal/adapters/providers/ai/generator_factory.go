package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/providers"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/openai"
	"github.com/wecare/healthtracker/pkg/config"
)

// NewConsultationGenerator picks the generator for cfg: the placeholder when
// no API key is configured, otherwise the OpenAI client behind a breaker that
// degrades to the placeholder.
func NewConsultationGenerator(cfg *config.AIConfig) providers.ConsultationGenerator {
	placeholder := NewPlaceholderGenerator()
	if cfg == nil || cfg.APIKey == "" {
		log.Info().Msg("No AI provider configured, consultations use the placeholder response")
		return placeholder
	}

	client, err := openai.NewClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create OpenAI client, consultations use the placeholder response")
		return placeholder
	}

	return NewFallbackGenerator("openai", client, placeholder, DefaultBreakerSettings())
}

var errEmptyAdvice = errors.New("generator returned no advice")

// BreakerSettings tunes the circuit breaker around the primary generator
type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
	// HalfOpenRequests is how many probes may run while half-open
	HalfOpenRequests uint32
}

// DefaultBreakerSettings returns the production breaker settings
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// FallbackGenerator wraps a primary generator with a circuit breaker and a
// fallback. Primary failures never reach the caller: the fallback answer is
// returned marked as degraded.
type FallbackGenerator struct {
	primary  providers.ConsultationGenerator
	fallback providers.ConsultationGenerator
	breaker  *gobreaker.CircuitBreaker
}

// NewFallbackGenerator creates a new fallback generator
func NewFallbackGenerator(name string, primary, fallback providers.ConsultationGenerator, settings BreakerSettings) *FallbackGenerator {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.HalfOpenRequests,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("generator", name).Str("from", from.String()).Str("to", to.String()).Msg("Consultation generator breaker changed state")
		},
	})

	return &FallbackGenerator{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
	}
}

// Generate asks the primary generator through the breaker and falls back on
// any failure, including an open breaker
func (g *FallbackGenerator) Generate(ctx context.Context, symptoms, prompt string) (*entities.GeneratedAdvice, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		advice, err := g.primary.Generate(ctx, symptoms, prompt)
		if err == nil && advice == nil {
			return nil, errEmptyAdvice
		}
		return advice, err
	})
	if err == nil {
		return result.(*entities.GeneratedAdvice), nil
	}

	log.Warn().Err(err).Str("breaker_state", g.breaker.State().String()).Msg("Consultation generator failed, using fallback")

	advice, fbErr := g.fallback.Generate(ctx, symptoms, prompt)
	if fbErr != nil {
		return nil, fbErr
	}
	advice.Degraded = true
	return advice, nil
}

// State reports the breaker state
func (g *FallbackGenerator) State() gobreaker.State {
	return g.breaker.State()
}
