package domain

import (
	"strings"
	"time"
)

// ComparisonSeparator joins the two snippets of a compare analysis in HistoryEntry.Code.
const ComparisonSeparator = "\n\n--- COMPARISON ---\n\n"

// HistoryEntry is one persisted analysis. Field names match the export format.
type HistoryEntry struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Code       string     `json:"code"`
	Language   Language   `json:"language"`
	Mode       Mode       `json:"mode"`
	Difficulty Difficulty `json:"difficulty"`
	Result     string     `json:"result"`
}

// HistoryEntryInput is a HistoryEntry before the store assigns ID and Timestamp.
type HistoryEntryInput struct {
	Code       string
	Language   Language
	Mode       Mode
	Difficulty Difficulty
	Result     string
}

// NewHistoryEntryInput builds the record of a finished analysis.
func NewHistoryEntryInput(req AnalysisRequest, result string) HistoryEntryInput {
	code := req.Code
	if req.Mode == ModeCompare {
		code = JoinComparison(req.Code, req.SecondCode)
	}
	return HistoryEntryInput{
		Code:       code,
		Language:   req.Language,
		Mode:       req.Mode,
		Difficulty: req.Difficulty,
		Result:     result,
	}
}

// JoinComparison encodes two snippets into a single code field.
func JoinComparison(first, second string) string {
	return first + ComparisonSeparator + second
}

// SplitComparison reverses JoinComparison. A value without the separator is
// returned as the first snippet.
func SplitComparison(code string) (string, string) {
	first, second, _ := strings.Cut(code, ComparisonSeparator)
	return first, second
}

// Matches reports whether term occurs in the code, mode or language (case-insensitive).
func (e HistoryEntry) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Code), term) ||
		strings.Contains(strings.ToLower(string(e.Mode)), term) ||
		strings.Contains(strings.ToLower(string(e.Language)), term)
}

// Theme is the persisted UI preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme value.
func ParseTheme(raw string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	default:
		return "", false
	}
}

// Toggle flips light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
