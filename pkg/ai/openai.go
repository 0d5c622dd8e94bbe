package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI provider.
type OpenAIConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	MaxTokens      int
	Temperature    float32
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// OpenAIProvider implements Provider against the OpenAI chat completion
// and embeddings APIs.
type OpenAIProvider struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIProvider builds a provider using the supplied configuration.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = string(openai.SmallEmbedding3)
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	tracer := otel.Tracer("github.com/CE2L/ICT-Project1-KOR/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey))

	return &OpenAIProvider{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Name identifies the provider and chat model.
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("OpenAI (%s)", p.cfg.ChatModel)
}

// Complete sends the prompt to the chat completion API and returns the
// model's text answer.
func (p *OpenAIProvider) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := p.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", p.cfg.ChatModel),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.ChatModel,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a senior technical interviewer. Answer precisely and keep your analysis grounded in the material you are given.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	providerDuration.WithLabelValues("openai", "complete").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues("openai", "complete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", unavailable("openai complete", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		providerFailures.WithLabelValues("openai", "complete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", unavailable("openai complete", err)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns the embedding vector for the text.
func (p *OpenAIProvider) Embed(parent context.Context, text string) ([]float32, error) {
	ctx, span := p.tracer.Start(parent, "openai.embed", trace.WithAttributes(
		attribute.String("model", p.cfg.EmbeddingModel),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.cfg.EmbeddingModel),
	})
	providerDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues("openai", "embed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("openai embed", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		err := fmt.Errorf("empty embedding returned from openai")
		providerFailures.WithLabelValues("openai", "embed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, unavailable("openai embed", err)
	}

	return resp.Data[0].Embedding, nil
}
