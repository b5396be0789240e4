package assistant

import (
	"context"
	"errors"
	"fmt"

	"knowledge-assistant/pkg/metrics"

	"go.uber.org/zap"
)

// Fixed generation parameters. Only the model name is configurable.
const (
	Temperature     = 0.7
	TopP            = 1.0
	TopK            = 1
	MaxOutputTokens = 2048

	// availableSample caps how many model names a ModelNotFoundError lists.
	availableSample = 5
)

// Provider is a generative AI backend.
type Provider interface {
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

type Gateway struct {
	credential string
	provider   Provider
	system     string
	log        *zap.Logger
}

// NewGateway returns a gateway that answers in demo mode when credential is
// empty. provider may be nil in that case.
func NewGateway(credential string, provider Provider, log *zap.Logger) *Gateway {
	return &Gateway{
		credential: credential,
		provider:   provider,
		system:     DefaultSystemPrompt,
		log:        log.With(zap.String("component", "ai_gateway")),
	}
}

func (g *Gateway) DemoMode() bool {
	return g.credential == "" || g.provider == nil
}

// DemoReply is the deterministic answer returned without a credential.
func DemoReply(message string) string {
	return fmt.Sprintf("Demo mode: Received '%s'. Add Gemini API key for full functionality.", message)
}

// Generate assembles the prompt for in and asks the provider for a reply.
func (g *Gateway) Generate(ctx context.Context, in PromptInput) (string, error) {
	if g.DemoMode() {
		metrics.AssistantOutcome("demo")
		return DemoReply(in.Message), nil
	}

	if in.System == "" {
		in.System = g.system
	}
	prompt := BuildPrompt(in)

	text, err := g.provider.Generate(ctx, prompt)
	if err == nil {
		metrics.AssistantOutcome("ok")
		return text, nil
	}

	metrics.AssistantOutcome("error")

	if errors.Is(err, ErrModelNotFound) {
		notFound := &ModelNotFoundError{Model: g.provider.Model()}
		models, listErr := g.provider.ListModels(ctx)
		if listErr != nil {
			notFound.ListErr = listErr
		} else {
			if len(models) > availableSample {
				models = models[:availableSample]
			}
			notFound.Available = models
		}

		g.log.Error("Configured model not found",
			zap.String("model", notFound.Model),
			zap.Strings("available", notFound.Available),
			zap.Error(err),
		)
		return "", notFound
	}

	g.log.Error("Failed to generate reply", zap.Error(err))
	return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
