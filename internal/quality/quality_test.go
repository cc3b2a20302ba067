package quality

import (
	"strings"
	"testing"
)

func TestScore(t *testing.T) {
	long := strings.Repeat("a", 2500)
	medium := strings.Repeat("a", 500)

	tests := []struct {
		name    string
		content string
		tags    []string
		want    float64
	}{
		{
			name:    "base",
			content: medium,
			tags:    []string{"general"},
			want:    3,
		},
		{
			name:    "single turn scenario",
			content: "user: hello world",
			tags:    []string{"general"},
			// 3 - 1 (short) = 2
			want: 2,
		},
		{
			name:    "long content",
			content: long,
			tags:    []string{"general"},
			want:    4,
		},
		{
			name:    "code fence",
			content: medium + "```go\n```",
			tags:    []string{"coding"},
			want:    3.5,
		},
		{
			name:    "literal code word",
			content: medium + " code",
			tags:    []string{"coding"},
			want:    3.5,
		},
		{
			name:    "many tags rounds up",
			content: medium,
			tags:    []string{"a", "b", "c"},
			// 3.3 rounds to 3.5
			want: 3.5,
		},
		{
			name:    "many lines",
			content: medium + strings.Repeat("\nline", 11),
			tags:    []string{"general"},
			// 3.2 rounds to 3
			want: 3,
		},
		{
			name:    "everything clamps to max",
			content: "```" + long + strings.Repeat("\n", 11),
			tags:    []string{"a", "b", "c"},
			want:    5,
		},
		{
			name:    "short with tags",
			content: "code",
			tags:    []string{"a", "b", "c"},
			// 3 - 1 + 0.5 + 0.3 = 2.8
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.content, tt.tags); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_FullBonusScenario(t *testing.T) {
	// 2500 chars with a code fence, three tags and twelve lines.
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = strings.Repeat("x", 200)
	}
	lines[0] = "```" + lines[0][3:]
	content := strings.Join(lines, "\n")
	content += strings.Repeat("y", 2500-len(content))

	got := Score(content, []string{"coding", "data", "debugging"})
	if got != 5 {
		t.Errorf("Score() = %v, want 5", got)
	}
}

func TestScore_AlwaysValid(t *testing.T) {
	inputs := []string{"", "a", strings.Repeat("code\n", 900), strings.Repeat("z", 101)}
	for _, in := range inputs {
		for n := 0; n < 5; n++ {
			tags := make([]string, n)
			got := Score(in, tags)
			if !valid(got) {
				t.Errorf("Score(len=%d, tags=%d) = %v, not a valid score", len(in), n, got)
			}
			if again := Score(in, tags); again != got {
				t.Errorf("Score() not deterministic: %v then %v", got, again)
			}
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.8, 3},
		{3.2, 3},
		{3.3, 3.5},
		{3.75, 4},
		{1, 1},
	}
	for _, tt := range tests {
		if got := round(tt.in); got != tt.want {
			t.Errorf("round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(0.2); got != Min {
		t.Errorf("clamp(0.2) = %v, want %v", got, Min)
	}
	if got := clamp(5.7); got != Max {
		t.Errorf("clamp(5.7) = %v, want %v", got, Max)
	}
	if got := clamp(3.3); got != 3.3 {
		t.Errorf("clamp(3.3) = %v, want 3.3", got)
	}
}
