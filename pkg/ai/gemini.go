package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// GeminiConfig defines configuration options for the Gemini provider.
type GeminiConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Temperature    float32
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// GeminiProvider implements Provider against the Gemini API for both
// content generation and embeddings.
type GeminiProvider struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiProvider builds a provider using the supplied configuration.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.ChatModel == "" {
		cfg.ChatModel = "gemini-2.0-flash-lite"
	}

	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-004"
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiProvider{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/CE2L/ICT-Project1-KOR/pkg/ai/gemini"),
		logger: logger,
	}, nil
}

// Name identifies the provider and chat model.
func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("Google Gemini (%s)", p.cfg.ChatModel)
}

// Complete sends the prompt to the Gemini generate-content API.
func (p *GeminiProvider) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := p.tracer.Start(parent, "gemini.complete", trace.WithAttributes(
		attribute.String("model", p.cfg.ChatModel),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := p.client.Models.GenerateContent(
		ctx,
		p.cfg.ChatModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(p.cfg.Temperature)},
	)
	providerDuration.WithLabelValues("gemini", "complete").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues("gemini", "complete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", unavailable("gemini complete", err)
	}

	if err := validateGenerateResponse(result); err != nil {
		providerFailures.WithLabelValues("gemini", "complete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", unavailable("gemini complete", err)
	}

	return strings.TrimSpace(result.Text()), nil
}

// Embed returns the embedding vector for the text.
func (p *GeminiProvider) Embed(parent context.Context, text string) ([]float32, error) {
	ctx, span := p.tracer.Start(parent, "gemini.embed", trace.WithAttributes(
		attribute.String("model", p.cfg.EmbeddingModel),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	start := time.Now()
	result, err := p.client.Models.EmbedContent(ctx, p.cfg.EmbeddingModel, content, nil)
	providerDuration.WithLabelValues("gemini", "embed").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues("gemini", "embed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("gemini embed", err)
	}

	vector, err := validateEmbeddingResponse(result)
	if err != nil {
		providerFailures.WithLabelValues("gemini", "embed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("gemini embed", err)
	}

	return vector, nil
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("candidate content is empty")
	}

	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}

	for i, val := range values {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}

	return values, nil
}
