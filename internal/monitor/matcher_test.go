package monitor

import (
	"reflect"
	"testing"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		keywords []string
		mode     MatchMode
		want     []string
	}{
		{
			name:     "any mode single match",
			content:  "limited offer today",
			keywords: []string{"offer", "sale"},
			mode:     MatchAny,
			want:     []string{"offer"},
		},
		{
			name:     "any mode no match",
			content:  "nothing here",
			keywords: []string{"offer"},
			mode:     MatchAny,
			want:     nil,
		},
		{
			name:     "any mode preserves configured order",
			content:  "sale and offer",
			keywords: []string{"offer", "sale"},
			mode:     MatchAny,
			want:     []string{"offer", "sale"},
		},
		{
			name:     "all mode complete match",
			content:  "new product, limited offer",
			keywords: []string{"new", "offer"},
			mode:     MatchAll,
			want:     []string{"new", "offer"},
		},
		{
			name:     "all mode partial match suppressed",
			content:  "new product",
			keywords: []string{"new", "offer"},
			mode:     MatchAll,
			want:     nil,
		},
		{
			name:    "empty keywords never match in any mode",
			content: "anything at all",
			mode:    MatchAny,
			want:    nil,
		},
		{
			name:     "empty keywords never match in all mode",
			content:  "anything at all",
			keywords: []string{},
			mode:     MatchAll,
			want:     nil,
		},
		{
			name:     "case insensitive content",
			content:  "OFFER now",
			keywords: []string{"offer"},
			mode:     MatchAny,
			want:     []string{"offer"},
		},
		{
			name:     "case insensitive keyword, original form returned",
			content:  "big offer",
			keywords: []string{"OFFER"},
			mode:     MatchAny,
			want:     []string{"OFFER"},
		},
		{
			name:     "whitespace-only keyword ignored",
			content:  "big offer",
			keywords: []string{"   ", "offer"},
			mode:     MatchAny,
			want:     []string{"offer"},
		},
		{
			name:     "all mode ignores empty keywords when counting",
			content:  "new limited offer",
			keywords: []string{"new", "", "offer"},
			mode:     MatchAll,
			want:     []string{"new", "offer"},
		},
		{
			name:     "keyword trimmed before comparison",
			content:  "big offer",
			keywords: []string{" offer "},
			mode:     MatchAny,
			want:     []string{" offer "},
		},
		{
			name:     "empty content never matches",
			content:  "",
			keywords: []string{"offer"},
			mode:     MatchAny,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchKeywords(tt.content, tt.keywords, tt.mode)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchKeywords(%q, %v, %q) = %v, want %v",
					tt.content, tt.keywords, tt.mode, got, tt.want)
			}
		})
	}
}

func TestMatchKeywordsIsPure(t *testing.T) {
	keywords := []string{"offer", "sale"}
	first := MatchKeywords("offer and sale", keywords, MatchAny)
	second := MatchKeywords("offer and sale", keywords, MatchAny)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(keywords, []string{"offer", "sale"}) {
		t.Errorf("keyword list mutated: %v", keywords)
	}
}
