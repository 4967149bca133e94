package generator

import (
	"context"
	"fmt"

	"github.com/voyago/voyago-go/internal/rag"
)

// MockGenerator is the deterministic fallback used when no model provider is
// configured. It produces fixed templates that echo enough of the input to be
// testable, and always mentions how to enable live generation. It never fails.
type MockGenerator struct{}

// NewMock constructs a MockGenerator.
func NewMock() *MockGenerator {
	return &MockGenerator{}
}

// Respond returns a fixed template echoing the query.
func (MockGenerator) Respond(_ context.Context, query, _ string) string {
	return fmt.Sprintf("Based on the available travel information, here's what I found for your query: '%s'. "+
		"The context contains relevant travel details that would help answer your question. "+
		"For a complete response, please ensure a model provider is configured.", query)
}

// TravelPlan returns a fixed template echoing the preferences.
func (MockGenerator) TravelPlan(_ context.Context, prefs rag.UserPreferences, _ string) string {
	summary := formatPreferences(prefs)
	if summary == "" {
		summary = "none stated"
	}
	return fmt.Sprintf("I would create a personalized travel plan based on your preferences:\n%s\n"+
		"For a detailed plan, please ensure a model provider is configured.", summary)
}

// DestinationSummary returns a fixed template naming the destination.
func (MockGenerator) DestinationSummary(_ context.Context, destination, _ string) string {
	return fmt.Sprintf("%s is a wonderful travel destination with many attractions and cultural experiences. "+
		"Based on the available information, there are several interesting places to visit and activities to enjoy. "+
		"For a detailed summary, please ensure a model provider is configured.", destination)
}

// Info describes the mock backend.
func (MockGenerator) Info() ModelInfo {
	return ModelInfo{Variant: VariantMock}
}
