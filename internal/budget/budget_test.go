package budget

import (
	"strings"
	"testing"
)

func Test_Estimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "short rounds up to one", in: "hi", want: 1},
		{name: "four chars per token", in: "abcdefgh", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Estimate(tt.in); got != tt.want {
				t.Errorf("Estimate(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func Test_Check(t *testing.T) {
	t.Parallel()

	small := strings.Repeat("a", 40)
	tokens, over := Check(small, 100)
	if tokens != 10 {
		t.Errorf("tokens = %d, want 10", tokens)
	}
	if over {
		t.Error("40 chars must fit a 100 token budget")
	}

	big := strings.Repeat("a", 4*DefaultMaxContextTokens+4)
	if _, over := Check(big, 0); !over {
		t.Error("oversized prompt must exceed the default budget")
	}
}
