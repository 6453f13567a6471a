package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/cli/helpers"
)

// renderOptions controls how a result reaches the terminal.
type renderOptions struct {
	raw bool
}

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand(container *app.Container) *cobra.Command {
	var (
		mode       string
		language   string
		difficulty string
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a code snippet (review, explain, bugs, linebyline, refactor)",
		Long: "Analyze reads code from a file or standard input, sends it to Gemini with a\n" +
			"mode-specific prompt and renders the markdown answer. The language is inferred\n" +
			"from the file extension unless --lang is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			code, err := helpers.ReadSource(path, cmd.InOrStdin())
			if err != nil {
				return err
			}

			parsedMode, err := parseModeFlag(container, mode)
			if err != nil {
				return err
			}
			parsedDifficulty, err := parseDifficultyFlag(container, difficulty)
			if err != nil {
				return err
			}

			req := domain.AnalysisRequest{
				Mode:       parsedMode,
				Code:       code,
				Language:   helpers.ResolveLanguage(language, path),
				Difficulty: parsedDifficulty,
			}
			return runAnalysis(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), container, req, renderOptions{raw: raw})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Analysis mode: review|explain|bugs|linebyline|refactor (default from config)")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Source language (inferred from the file extension by default)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Explanation level: beginner|intermediate|expert (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown answer without terminal styling")

	return cmd
}

// parseModeFlag falls back to the configured default mode, then review.
func parseModeFlag(container *app.Container, raw string) (domain.Mode, error) {
	if raw == "" {
		raw = string(container.Config.Defaults.Mode)
	}
	if raw == "" {
		return domain.ModeReview, nil
	}
	return domain.ParseMode(raw)
}

// parseDifficultyFlag falls back to the configured default difficulty.
func parseDifficultyFlag(container *app.Container, raw string) (domain.Difficulty, error) {
	if raw == "" {
		raw = string(container.Config.Defaults.Difficulty)
	}
	return domain.ParseDifficulty(raw)
}

// runAnalysis sends the request and renders the answer.
func runAnalysis(ctx context.Context, out, errOut io.Writer, container *app.Container, req domain.AnalysisRequest, opts renderOptions) error {
	if container.AnalysisService == nil {
		return fmt.Errorf(ErrAnalysisServiceUnavailable)
	}

	spinner := helpers.NewSpinner(errOut, SpinnerMessage)
	spinner.Start()
	result, err := container.AnalysisService.Analyze(ctx, req)
	spinner.Stop()
	if err != nil {
		return err
	}

	renderer := helpers.NewRenderer(out, currentTheme(container), opts.raw)
	if err := renderer.Render(result.Text); err != nil {
		return err
	}

	fmt.Fprintf(errOut, "Model: %s (%s)", result.Model, result.Provider)
	if result.HistoryID != "" {
		fmt.Fprintf(errOut, " | saved as %s", result.HistoryID)
	}
	fmt.Fprintln(errOut)
	return nil
}

func currentTheme(container *app.Container) domain.Theme {
	if container.HistoryService == nil {
		return domain.ThemeLight
	}
	return container.HistoryService.Theme()
}
