package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrUnavailable marks provider transport or API failures. A run that
// hits it fails outright; the pipeline never substitutes a zero score
// for a missing provider response.
var ErrUnavailable = errors.New("ai provider unavailable")

// Provider is the capability boundary the analysis pipeline depends on:
// chat-style text completion plus fixed-dimension text embeddings.
type Provider interface {
	// Complete returns the model's text answer for the prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	// Embed returns the embedding vector for the text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Name identifies the provider and model for reporting.
	Name() string
}

// Embedder is the subset of Provider needed to produce embeddings.
// Providers without a native embedding API delegate to one.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var (
	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interview",
		Subsystem: "ai",
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of AI provider requests",
	}, []string{"provider", "operation"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Subsystem: "ai",
		Name:      "provider_failures_total",
		Help:      "Number of failed AI provider requests",
	}, []string{"provider", "operation"})
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}
