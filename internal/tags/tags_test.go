package tags

import (
	"reflect"
	"testing"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		title   string
		want    []string
	}{
		{
			name:    "no keywords",
			content: "user: hello world",
			title:   "T",
			want:    []string{"general"},
		},
		{
			name:    "empty input",
			content: "",
			title:   "",
			want:    []string{"general"},
		},
		{
			name:    "category from title",
			content: "user: hi",
			title:   "Python help",
			want:    []string{"coding"},
		},
		{
			name:    "case insensitive",
			content: "user: Plan my VACATION",
			title:   "",
			want:    []string{"travel"},
		},
		{
			name:    "special triggers follow categories",
			content: "user: please explain why this SQL query has a bug and how to optimize it",
			title:   "",
			want:    []string{"data", "debugging", "learning", "optimization"},
		},
		{
			name:    "substring match",
			content: "user: the prefix helps",
			title:   "",
			want:    []string{"debugging"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Infer(tt.content, tt.title)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Infer(%q, %q) = %v, want %v", tt.content, tt.title, got, tt.want)
			}
		})
	}
}

func TestInfer_Deterministic(t *testing.T) {
	content := "assistant: here is the code for the database migration, explain the error"
	first := Infer(content, "Migration")
	for i := 0; i < 20; i++ {
		if got := Infer(content, "Migration"); !reflect.DeepEqual(got, first) {
			t.Fatalf("Infer() run %d = %v, want %v", i, got, first)
		}
	}
}

func TestInfer_NoDuplicates(t *testing.T) {
	got := Infer("code code function error bug fix", "code")
	seen := make(map[string]bool)
	for _, tag := range got {
		if seen[tag] {
			t.Errorf("Infer() returned duplicate tag %q in %v", tag, got)
		}
		seen[tag] = true
	}
}

func TestCategories(t *testing.T) {
	all := Categories()
	if all[len(all)-1] != General {
		t.Errorf("Categories() last = %q, want %q", all[len(all)-1], General)
	}
	if len(all) != len(categories)+len(special)+1 {
		t.Errorf("Categories() returned %d tags", len(all))
	}
}
