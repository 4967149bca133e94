// Package generator produces natural-language travel answers from assembled
// retrieval context. Two interchangeable variants exist: a live backend over
// an Eino ChatModel, and a deterministic mock used when no model provider is
// configured. The variant is fixed at construction; callers cannot tell them
// apart through the interface.
//
// Generation is fail-soft throughout: every method returns usable text, with
// backend failures mapped to an apology message rather than an error, so the
// surrounding pipeline keeps its retrieval results even when the model is down.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyago/voyago-go/internal/rag"
)

// Variant names reported by ModelInfo.
const (
	VariantLive = "live"
	VariantMock = "mock"
)

// Apology messages returned when the live backend fails mid-generation.
const (
	apologyResponse = "I apologize, but I encountered an error while processing your request. Please try again."
	apologyPlan     = "I apologize, but I encountered an error while creating your travel plan. Please try again."
)

// apologySummary is the destination-summary failure message; it names the
// destination, so it is a format string rather than a constant.
func apologySummary(destination string) string {
	return fmt.Sprintf("I apologize, but I encountered an error while creating the destination summary for %s.", destination)
}

// Generator produces travel text from a query (or preferences, or a
// destination name) plus an assembled context prompt. Implementations never
// return errors from generation; failures degrade to apology text.
type Generator interface {
	// Respond answers a free-text travel question grounded in the context.
	Respond(ctx context.Context, query, contextPrompt string) string

	// TravelPlan produces an itinerary from the user's preferences and context.
	TravelPlan(ctx context.Context, prefs rag.UserPreferences, contextPrompt string) string

	// DestinationSummary produces an overview of a single destination.
	DestinationSummary(ctx context.Context, destination, contextPrompt string) string

	// Info describes the backend for stats reporting.
	Info() ModelInfo
}

// ModelInfo describes a generation backend for stats endpoints.
type ModelInfo struct {
	// Variant is "live" or "mock".
	Variant string `json:"variant"`

	// Model is the model name, empty for the mock variant.
	Model string `json:"model,omitempty"`

	// Temperature is the sampling temperature, zero for the mock variant.
	Temperature float32 `json:"temperature,omitempty"`
}

// System prompts for the three generation modes.
const (
	responseSystemPrompt = `You are an expert travel planner and guide. Use the provided context to answer travel-related questions accurately and helpfully.

Your responses should be:
- Informative and detailed
- Practical and actionable
- Friendly and engaging
- Based on the provided context
- Include specific recommendations when possible

If the context doesn't contain enough information, acknowledge this and provide general travel advice.`

	planSystemPrompt = `You are an expert travel planner. Create detailed, personalized travel plans based on user preferences and available information.

Your travel plans should include:
- Day-by-day itinerary
- Recommended activities and attractions
- Budget considerations
- Practical tips and advice
- Alternative options when possible

Make the plan practical, enjoyable, and tailored to the user's preferences.`

	summarySystemPrompt = `You are a travel expert. Create engaging and informative destination summaries that highlight the key attractions, culture, and practical information for travelers.`
)

// formatPreferences renders the populated preference fields as "key: value"
// lines in a fixed order, list values joined with ", ". Unset fields are
// omitted so the model only sees what the user actually stated.
func formatPreferences(prefs rag.UserPreferences) string {
	var lines []string
	if prefs.Destination != "" {
		lines = append(lines, "destination: "+prefs.Destination)
	}
	if prefs.Budget != "" {
		lines = append(lines, "budget: "+prefs.Budget)
	}
	if prefs.Duration != "" {
		lines = append(lines, "duration: "+prefs.Duration)
	}
	if len(prefs.Interests) > 0 {
		lines = append(lines, "interests: "+strings.Join(prefs.Interests, ", "))
	}
	if prefs.TravelStyle != "" {
		lines = append(lines, "travel_style: "+prefs.TravelStyle)
	}
	return strings.Join(lines, "\n")
}
