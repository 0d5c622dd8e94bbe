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

const friendliBaseURL = "https://inference.friendli.ai/v1"

// FriendliConfig defines configuration options for the Friendli provider.
type FriendliConfig struct {
	APIKey         string
	ChatModel      string
	MaxTokens      int
	Temperature    float32
	RequestTimeout time.Duration
	// Embedder receives Embed calls; Friendli serves chat only through
	// its OpenAI-compatible endpoint and exposes no embedding API.
	Embedder Embedder
	Logger   zerolog.Logger
}

// FriendliProvider serves chat completions through Friendli's
// OpenAI-compatible inference endpoint, delegating embeddings to a
// configured fallback embedder.
type FriendliProvider struct {
	client   *openai.Client
	cfg      FriendliConfig
	embedder Embedder
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// NewFriendliProvider builds a provider using the supplied configuration.
func NewFriendliProvider(cfg FriendliConfig) (*FriendliProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("friendli api key is required")
	}

	if cfg.ChatModel == "" {
		cfg.ChatModel = "meta-llama-3.1-8b-instruct"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = friendliBaseURL

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &FriendliProvider{
		client:   openai.NewClientWithConfig(clientConfig),
		cfg:      cfg,
		embedder: cfg.Embedder,
		tracer:   otel.Tracer("github.com/CE2L/ICT-Project1-KOR/pkg/ai/friendli"),
		logger:   logger,
	}, nil
}

// Name identifies the provider and chat model.
func (p *FriendliProvider) Name() string {
	return fmt.Sprintf("Friendli AI (%s)", p.cfg.ChatModel)
}

// Complete sends the prompt to the Friendli inference endpoint.
func (p *FriendliProvider) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := p.tracer.Start(parent, "friendli.complete", trace.WithAttributes(
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
	providerDuration.WithLabelValues("friendli", "complete").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues("friendli", "complete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", unavailable("friendli complete", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from friendli")
		providerFailures.WithLabelValues("friendli", "complete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", unavailable("friendli complete", err)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed delegates to the configured fallback embedder.
func (p *FriendliProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.embedder == nil {
		return nil, unavailable("friendli embed", fmt.Errorf("no embedding backend configured"))
	}

	return p.embedder.Embed(ctx, text)
}
