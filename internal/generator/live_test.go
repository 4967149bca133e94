package generator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/voyago/voyago-go/internal/rag"
)

// stubChatModel returns a fixed response, or an error when err is set.
type stubChatModel struct {
	content string
	err     error
	// lastMessages captures the input for prompt-shape assertions.
	lastMessages []*schema.Message
}

func (s *stubChatModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	s.lastMessages = in
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.content, nil), nil
}

func (s *stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported in stub")
}

func (s *stubChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func newLive(t *testing.T, stub *stubChatModel) *LiveGenerator {
	t.Helper()
	g, err := NewLive(&LiveConfig{ChatModel: stub, ModelName: "test-model", Temperature: 0.7})
	if err != nil {
		t.Fatalf("new live generator: %v", err)
	}
	return g
}

func Test_Live_RespondPassesContextAndQuery(t *testing.T) {
	t.Parallel()
	stub := &stubChatModel{content: "Visit the Louvre early."}
	g := newLive(t, stub)

	out := g.Respond(context.Background(), "what to do in Paris", "Query: what to do in Paris\n\nRelevant travel information:")
	if out != "Visit the Louvre early." {
		t.Errorf("response = %q, want stub content", out)
	}

	if len(stub.lastMessages) != 2 {
		t.Fatalf("model saw %d messages, want system + user", len(stub.lastMessages))
	}
	if stub.lastMessages[0].Role != schema.System {
		t.Errorf("first message role = %v, want system", stub.lastMessages[0].Role)
	}
	user := stub.lastMessages[1].Content
	if !strings.Contains(user, "User Question: what to do in Paris") {
		t.Errorf("user message missing query:\n%s", user)
	}
	if !strings.Contains(user, "Relevant travel information:") {
		t.Errorf("user message missing context:\n%s", user)
	}
}

func Test_Live_RespondFailureReturnsApology(t *testing.T) {
	t.Parallel()
	stub := &stubChatModel{err: fmt.Errorf("model unavailable")}
	g := newLive(t, stub)

	out := g.Respond(context.Background(), "anything", "ctx")
	if out != apologyResponse {
		t.Errorf("response = %q, want apology", out)
	}
}

func Test_Live_TravelPlanFailureReturnsApology(t *testing.T) {
	t.Parallel()
	stub := &stubChatModel{err: fmt.Errorf("model unavailable")}
	g := newLive(t, stub)

	out := g.TravelPlan(context.Background(), rag.UserPreferences{Destination: "Tokyo"}, "ctx")
	if out != apologyPlan {
		t.Errorf("plan = %q, want apology", out)
	}
}

func Test_Live_DestinationSummaryFailureNamesDestination(t *testing.T) {
	t.Parallel()
	stub := &stubChatModel{err: fmt.Errorf("model unavailable")}
	g := newLive(t, stub)

	out := g.DestinationSummary(context.Background(), "Kyoto", "ctx")
	if !strings.Contains(out, "Kyoto") {
		t.Errorf("apology should name the destination: %q", out)
	}
}

func Test_Live_EmptyModelOutputIsAFailure(t *testing.T) {
	t.Parallel()
	stub := &stubChatModel{content: ""}
	g := newLive(t, stub)

	out := g.Respond(context.Background(), "q", "ctx")
	if out != apologyResponse {
		t.Errorf("empty model output should degrade to apology, got %q", out)
	}
}

func Test_Live_Info(t *testing.T) {
	t.Parallel()
	g := newLive(t, &stubChatModel{content: "x"})

	info := g.Info()
	if info.Variant != VariantLive {
		t.Errorf("variant = %q, want %q", info.Variant, VariantLive)
	}
	if info.Model != "test-model" {
		t.Errorf("model = %q, want test-model", info.Model)
	}
}
