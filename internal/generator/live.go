package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/voyago/voyago-go/internal/rag"
)

// defaultGenerateTimeout bounds each model call. Generation against a remote
// model is an unbounded external operation; the timeout converts a hung
// backend into the apology path.
const defaultGenerateTimeout = 120 * time.Second

// LiveConfig holds the dependencies for a LiveGenerator.
type LiveConfig struct {
	// ChatModel is the Eino model backend from the provider factory.
	ChatModel model.ChatModel //nolint:staticcheck // SA1019: model.ChatModel deprecated upstream; migration tracked separately

	// ModelName is the model identifier reported by Info.
	ModelName string

	// Temperature is the sampling temperature reported by Info.
	Temperature float32

	// Logger is the structured logger. Defaults to slog.Default if nil.
	Logger *slog.Logger

	// Timeout bounds each generation call. Defaults to 120s if zero.
	Timeout time.Duration
}

// LiveGenerator generates travel text through an Eino ChatModel.
type LiveGenerator struct {
	// chatModel is the underlying model backend.
	chatModel model.ChatModel //nolint:staticcheck // SA1019: model.ChatModel deprecated upstream; migration tracked separately

	// modelName and temperature are reported by Info.
	modelName   string
	temperature float32

	// log is the structured logger.
	log *slog.Logger

	// timeout bounds each generation call.
	timeout time.Duration
}

// NewLive constructs a LiveGenerator from the given config.
func NewLive(cfg *LiveConfig) (*LiveGenerator, error) {
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("generator: ChatModel must not be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultGenerateTimeout
	}
	return &LiveGenerator{
		chatModel:   cfg.ChatModel,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		log:         cfg.Logger,
		timeout:     cfg.Timeout,
	}, nil
}

// Respond answers a travel question grounded in the context prompt.
func (g *LiveGenerator) Respond(ctx context.Context, query, contextPrompt string) string {
	userMessage := fmt.Sprintf("Context:\n%s\n\nUser Question: %s", contextPrompt, query)
	out, err := g.generate(ctx, responseSystemPrompt, userMessage)
	if err != nil {
		g.log.Error("generator: response generation failed", slog.Any("error", err))
		return apologyResponse
	}
	return out
}

// TravelPlan produces an itinerary from the user's preferences and context.
func (g *LiveGenerator) TravelPlan(ctx context.Context, prefs rag.UserPreferences, contextPrompt string) string {
	userMessage := fmt.Sprintf("Context:\n%s\n\nUser Preferences:\n%s\n\nPlease create a detailed travel plan.",
		contextPrompt, formatPreferences(prefs))
	out, err := g.generate(ctx, planSystemPrompt, userMessage)
	if err != nil {
		g.log.Error("generator: travel plan generation failed", slog.Any("error", err))
		return apologyPlan
	}
	return out
}

// DestinationSummary produces an overview of a single destination.
func (g *LiveGenerator) DestinationSummary(ctx context.Context, destination, contextPrompt string) string {
	userMessage := fmt.Sprintf("Context:\n%s\n\nCreate a comprehensive summary for %s that includes must-see attractions, local culture, practical tips, and why travelers should visit this destination.",
		contextPrompt, destination)
	out, err := g.generate(ctx, summarySystemPrompt, userMessage)
	if err != nil {
		g.log.Error("generator: destination summary generation failed",
			slog.String("destination", destination),
			slog.Any("error", err),
		)
		return apologySummary(destination)
	}
	return out
}

// Info describes the live backend.
func (g *LiveGenerator) Info() ModelInfo {
	return ModelInfo{
		Variant:     VariantLive,
		Model:       g.modelName,
		Temperature: g.temperature,
	}
}

// generate runs one system+user exchange against the model.
func (g *LiveGenerator) generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	msg, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userMessage),
	})
	if err != nil {
		return "", fmt.Errorf("generator: model call failed: %w", err)
	}
	if msg == nil || msg.Content == "" {
		return "", fmt.Errorf("generator: model returned empty response")
	}
	return msg.Content, nil
}
