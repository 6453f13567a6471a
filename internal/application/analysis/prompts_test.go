package analysis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/guruji/internal/application/analysis"
	"github.com/doeshing/guruji/internal/domain"
)

func TestBuildPromptPerMode(t *testing.T) {
	tests := []struct {
		mode           domain.Mode
		mustContain    []string
		usesDifficulty bool
	}{
		{domain.ModeReview, []string{"As a senior software engineer", "**Security**", "**Suggestions**"}, true},
		{domain.ModeExplain, []string{"**Purpose**", "**Flow**", "**Key Concepts**", "**Output**"}, true},
		{domain.ModeBugs, []string{"As a code quality expert", "**Code Smells**", "**Fixes**"}, false},
		{domain.ModeLineByLine, []string{"line-by-line explanation", "Format as: Line X: [code] → [explanation]"}, true},
		{domain.ModeRefactor, []string{"1. The refactored code", "2. Explanation of changes made", "3. Benefits of the refactoring"}, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			prompt, err := analysis.BuildPrompt(domain.AnalysisRequest{
				Mode:       tc.mode,
				Code:       "const {{.X}} = `a`;",
				Language:   domain.LanguageJavaScript,
				Difficulty: domain.DifficultyBeginner,
			})
			require.NoError(t, err)
			for _, want := range tc.mustContain {
				assert.Contains(t, prompt, want)
			}
			assert.Contains(t, prompt, "```javascript\nconst {{.X}} = `a`;\n```", "code is embedded verbatim")
			assert.Equal(t, tc.usesDifficulty, strings.Contains(prompt, "beginner"))
		})
	}
}

func TestBuildPromptCompare(t *testing.T) {
	prompt, err := analysis.BuildPrompt(domain.AnalysisRequest{
		Mode:       domain.ModeCompare,
		Code:       "for i in range(3): pass",
		SecondCode: "[None for _ in range(3)]",
		Language:   domain.LanguagePython,
		Difficulty: domain.DifficultyBeginner,
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "**Recommendation**")
	assert.Contains(t, prompt, "for i in range(3): pass")
	assert.Contains(t, prompt, "[None for _ in range(3)]")
	assert.NotContains(t, prompt, "beginner")
}

func TestBuildPromptRejectsUnknownMode(t *testing.T) {
	_, err := analysis.BuildPrompt(domain.AnalysisRequest{Mode: "poem"})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}
