package analysis

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/doeshing/guruji/internal/domain"
)

const reviewTemplate = `As a senior software engineer, please review the following {{.Language}} code and provide feedback on:

1. **Best Practices**: Adherence to coding standards and conventions
2. **Readability**: Code clarity and maintainability
3. **Performance**: Efficiency and optimization opportunities
4. **Security**: Potential vulnerabilities or security concerns
5. **Suggestions**: Specific improvements with examples

Adjust your explanation level for {{.Difficulty}} developers.

Code to review:
` + "```{{.Language}}\n{{.Code}}\n```" + `

Please format your response with clear sections and bullet points.`

const explainTemplate = `Please explain the following {{.Language}} code in plain English for a {{.Difficulty}} level developer:

1. **Purpose**: What this code is trying to achieve
2. **Flow**: Step-by-step breakdown of the logic
3. **Key Concepts**: Important programming concepts used
4. **Output**: What the code produces or returns

Code to explain:
` + "```{{.Language}}\n{{.Code}}\n```" + `

Make it easy to understand with clear explanations.`

const bugsTemplate = `As a code quality expert, analyze the following {{.Language}} code and identify:

1. **Syntax Errors**: Any syntax mistakes
2. **Logic Flaws**: Potential logical errors or edge cases
3. **Runtime Errors**: Possible exceptions or crashes
4. **Code Smells**: Bad practices that could lead to issues
5. **Fixes**: Specific solutions for each issue found

Code to analyze:
` + "```{{.Language}}\n{{.Code}}\n```" + `

If no issues are found, mention that the code looks clean and suggest any minor improvements.`

const lineByLineTemplate = `Please provide a line-by-line explanation of the following {{.Language}} code for a {{.Difficulty}} level developer:

For each line (or logical block), explain:
- What it does
- Why it's needed
- How it contributes to the overall functionality

Code to analyze:
` + "```{{.Language}}\n{{.Code}}\n```" + `

Format as: Line X: [code] → [explanation]`

const compareTemplate = `Compare these two {{.Language}} code snippets and analyze:

1. **Functionality**: Do they achieve the same goal?
2. **Performance**: Which is more efficient and why?
3. **Readability**: Which is clearer and more maintainable?
4. **Best Practices**: Which follows better coding standards?
5. **Recommendation**: Which approach is better overall and why?

Code Snippet 1:
` + "```{{.Language}}\n{{.Code}}\n```" + `

Code Snippet 2:
` + "```{{.Language}}\n{{.SecondCode}}\n```" + `

Provide a detailed comparison with specific examples.`

const refactorTemplate = `Please refactor the following {{.Language}} code to make it cleaner, more readable, and more efficient:

Focus on:
1. **Clean Code Principles**: Better naming, structure, and organization
2. **Performance**: Optimize for better performance where possible
3. **Maintainability**: Make it easier to understand and modify
4. **Best Practices**: Apply modern {{.Language}} conventions

Original code:
` + "```{{.Language}}\n{{.Code}}\n```" + `

Please provide:
1. The refactored code
2. Explanation of changes made
3. Benefits of the refactoring

Adjust complexity for {{.Difficulty}} level developers.`

var promptTemplates = map[domain.Mode]*template.Template{
	domain.ModeReview:     template.Must(template.New("review").Parse(reviewTemplate)),
	domain.ModeExplain:    template.Must(template.New("explain").Parse(explainTemplate)),
	domain.ModeBugs:       template.Must(template.New("bugs").Parse(bugsTemplate)),
	domain.ModeLineByLine: template.Must(template.New("lineByLine").Parse(lineByLineTemplate)),
	domain.ModeCompare:    template.Must(template.New("compare").Parse(compareTemplate)),
	domain.ModeRefactor:   template.Must(template.New("refactor").Parse(refactorTemplate)),
}

type promptData struct {
	Language   domain.Language
	Difficulty domain.Difficulty
	Code       string
	SecondCode string
}

// BuildPrompt renders the prompt for req. Inputs are embedded verbatim.
func BuildPrompt(req domain.AnalysisRequest) (string, error) {
	tmpl, ok := promptTemplates[req.Mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidMode, req.Mode)
	}
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, promptData{
		Language:   req.Language,
		Difficulty: req.Difficulty,
		Code:       req.Code,
		SecondCode: req.SecondCode,
	})
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", req.Mode, err)
	}
	return buf.String(), nil
}
