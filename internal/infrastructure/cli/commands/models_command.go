package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/ai"
	"github.com/doeshing/guruji/internal/infrastructure/cli/helpers"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the Gemini model chain",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsRemoteCommand(container),
		newModelsTestCommand(container),
		newModelsUseCommand(container),
		newModelsAddCommand(container),
		newModelsRemoveCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured model chain in call order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newModelsRemoteCommand creates the 'models remote' subcommand
func newModelsRemoteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remote",
		Short: "List models available to the configured API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRemoteModels(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a short prompt to check the API connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return testConnection(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newModelsUseCommand creates the 'models use' subcommand
func newModelsUseCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set the primary (SDK) model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateModels(cmd.Context(), cmd.OutOrStdout(), container, func(cfg *domain.Config) error {
				return cfg.SetPrimaryModel(args[0])
			})
		},
	}
}

// newModelsAddCommand creates the 'models add' subcommand
func newModelsAddCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Append a model to the REST fallback chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateModels(cmd.Context(), cmd.OutOrStdout(), container, func(cfg *domain.Config) error {
				return cfg.AddFallbackModel(args[0])
			})
		},
	}
}

// newModelsRemoveCommand creates the 'models remove' subcommand
func newModelsRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a model from the REST fallback chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateModels(cmd.Context(), cmd.OutOrStdout(), container, func(cfg *domain.Config) error {
				return cfg.RemoveFallbackModel(args[0])
			})
		},
	}
}

// listModels prints the chain the analysis service will walk
func listModels(ctx context.Context, out io.Writer, container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(out, "ORDER\tMODEL\tPATH\n")
	fmt.Fprintf(out, "1\t%s\t%s\n", cfg.GetPrimaryModel(), ai.ProviderSDK)
	for i, model := range cfg.GetFallbackModels() {
		fmt.Fprintf(out, "%d\t%s\t%s\n", i+2, model, ai.ProviderREST)
	}

	return nil
}

// listRemoteModels queries the models endpoint
func listRemoteModels(ctx context.Context, out io.Writer, container *app.Container) error {
	if container.AnalysisService == nil {
		return fmt.Errorf(ErrAnalysisServiceUnavailable)
	}

	models, err := container.AnalysisService.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range models {
		fmt.Fprintf(out, "%s\t%s\tin %s / out %s tokens\n",
			strings.TrimPrefix(model.Name, "models/"),
			model.DisplayName,
			humanize.Comma(int64(model.InputTokenLimit)),
			humanize.Comma(int64(model.OutputTokenLimit)))
	}

	return nil
}

// testConnection runs the API self-check
func testConnection(ctx context.Context, out io.Writer, container *app.Container) error {
	if container.AnalysisService == nil {
		return fmt.Errorf(ErrAnalysisServiceUnavailable)
	}

	text, err := container.AnalysisService.TestConnection(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "API connection OK: %s\n", strings.TrimSpace(text))
	return nil
}

// updateModels loads the config, applies mutate, then validates and saves
func updateModels(ctx context.Context, out io.Writer, container *app.Container, mutate func(*domain.Config) error) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := mutate(&cfg); err != nil {
		return err
	}
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	return listModels(ctx, out, container)
}
