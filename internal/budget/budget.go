// Package budget provides token budget estimation for assembled context
// prompts. Because the pipeline supports multiple LLM backends with different
// tokenizers, it uses a conservative character-based heuristic:
// 1 token ≈ 4 characters (English prose). Retrieved context is never trimmed
// to fit; the budget exists to warn operators when a corpus produces prompts
// that risk overflowing small-context models.
package budget

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English; using 3 would be
	// more aggressive but over-reports on typical travel prose.
	charsPerToken = 4

	// DefaultMaxContextTokens is the default context budget in tokens.
	// Conservative enough to fit within 8k-context models while leaving
	// room for the generated answer.
	DefaultMaxContextTokens = 6000
)

// Estimate returns a rough token count for s using the character heuristic.
// Non-empty strings estimate to at least 1.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// Check reports the estimated token count of the context prompt and whether
// it exceeds maxTokens. maxTokens <= 0 falls back to the default budget.
func Check(contextPrompt string, maxTokens int) (tokens int, over bool) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxContextTokens
	}
	tokens = Estimate(contextPrompt)
	return tokens, tokens > maxTokens
}
