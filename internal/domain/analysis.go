// Package domain defines core business entities and value objects for guruji.
//
// The domain layer is independent of infrastructure concerns: it holds the
// analysis vocabulary (modes, languages, difficulty tiers), the history record
// schema, the error taxonomy and the configuration schema.
package domain

import (
	"fmt"
	"strings"
)

// Mode selects which prompt template and response shape an analysis uses.
type Mode string

const (
	ModeReview     Mode = "review"
	ModeExplain    Mode = "explain"
	ModeBugs       Mode = "bugs"
	ModeLineByLine Mode = "lineByLine"
	ModeCompare    Mode = "compare"
	ModeRefactor   Mode = "refactor"
)

// Modes lists every recognised mode in presentation order.
func Modes() []Mode {
	return []Mode{ModeReview, ModeExplain, ModeBugs, ModeLineByLine, ModeCompare, ModeRefactor}
}

// ParseMode accepts the canonical spelling and a few CLI-friendly aliases.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "review":
		return ModeReview, nil
	case "explain":
		return ModeExplain, nil
	case "bugs", "bug":
		return ModeBugs, nil
	case "linebyline", "line-by-line", "lines":
		return ModeLineByLine, nil
	case "compare":
		return ModeCompare, nil
	case "refactor":
		return ModeRefactor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
}

// Valid reports whether m is one of the recognised modes.
func (m Mode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// Title is the human label used by the CLI.
func (m Mode) Title() string {
	switch m {
	case ModeReview:
		return "Code Review"
	case ModeExplain:
		return "Explain Code"
	case ModeBugs:
		return "Bug Finder"
	case ModeLineByLine:
		return "Line-by-Line"
	case ModeCompare:
		return "Compare Code"
	case ModeRefactor:
		return "Refactor"
	default:
		return string(m)
	}
}

// Language is the source language tag interpolated into prompts.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageCPP        Language = "cpp"
)

var languageExtensions = map[Language]string{
	LanguageJavaScript: ".js",
	LanguagePython:     ".py",
	LanguageJava:       ".java",
	LanguageCPP:        ".cpp",
}

// Languages lists the supported languages.
func Languages() []Language {
	return []Language{LanguageJavaScript, LanguagePython, LanguageJava, LanguageCPP}
}

// Extension returns the conventional file extension, or "" for unknown tags.
func (l Language) Extension() string {
	return languageExtensions[l]
}

// ParseLanguage accepts the canonical tags and common aliases. An empty value
// is returned as is so the configured default can apply.
func ParseLanguage(raw string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "javascript", "js":
		return LanguageJavaScript, nil
	case "python", "py":
		return LanguagePython, nil
	case "java":
		return LanguageJava, nil
	case "cpp", "c++", "cxx":
		return LanguageCPP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, raw)
	}
}

// LanguageFromExtension maps a file extension (with or without the dot) to a language.
func LanguageFromExtension(ext string) (Language, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	switch ext {
	case ".mjs", ".cjs", ".jsx":
		return LanguageJavaScript, true
	case ".cc", ".cxx", ".hpp", ".h":
		return LanguageCPP, true
	}
	for lang, known := range languageExtensions {
		if known == ext {
			return lang, true
		}
	}
	return "", false
}

// Difficulty is a phrasing hint; it never changes control flow.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyExpert       Difficulty = "expert"
)

// ParseDifficulty defaults an empty value to intermediate.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DifficultyIntermediate, nil
	case "beginner":
		return DifficultyBeginner, nil
	case "intermediate":
		return DifficultyIntermediate, nil
	case "expert":
		return DifficultyExpert, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
	}
}

// AnalysisRequest is the input tuple of a single analysis.
// SecondCode is only read in compare mode.
type AnalysisRequest struct {
	Mode       Mode
	Code       string
	SecondCode string
	Language   Language
	Difficulty Difficulty
}

// AnalysisResult is what a successful analysis hands back to the presentation layer.
type AnalysisResult struct {
	Text      string
	Model     string
	Provider  string
	HistoryID string
}
