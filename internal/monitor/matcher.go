package monitor

import (
	"strings"

	"github.com/social-monitor/internal/config"
)

// MatchMode selects how a keyword list is evaluated against content
type MatchMode string

const (
	// MatchAny reports a match when any single keyword is present
	MatchAny MatchMode = config.MatchModeAny
	// MatchAll reports a match only when every keyword is present
	MatchAll MatchMode = config.MatchModeAll
)

// MatchKeywords evaluates content against a keyword list and returns the
// matched keywords in their configured order. Comparison is lowercase
// substring matching; keywords are trimmed and empty ones ignored. In
// MatchAll mode a partial match returns nil. An empty keyword list never
// matches.
func MatchKeywords(content string, keywords []string, mode MatchMode) []string {
	if len(keywords) == 0 || content == "" {
		return nil
	}

	lowered := strings.ToLower(content)

	var matched []string
	configured := 0
	for _, keyword := range keywords {
		trimmed := strings.ToLower(strings.TrimSpace(keyword))
		if trimmed == "" {
			continue
		}
		configured++
		if strings.Contains(lowered, trimmed) {
			matched = append(matched, keyword)
		}
	}

	if mode == MatchAll && len(matched) != configured {
		return nil
	}
	return matched
}
