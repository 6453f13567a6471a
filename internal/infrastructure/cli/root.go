// Package cli is the command-line surface of guruji.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCmd wires the cobra root command. The container is built from the parsed
// --config and --verbose flags before any subcommand runs; the caller closes it.
func NewRootCmd(opts Options) (*cobra.Command, *app.Container) {
	container := &app.Container{}
	root := newRootCmd(container)

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (default ~/.guruji/config.yaml, or $GURUJI_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		built, err := app.BuildContainer(cmd.Context(), app.Options{
			ConfigPath: opts.ConfigPath,
			Verbose:    opts.Verbose,
		})
		if err != nil {
			return err
		}
		*container = *built
		return nil
	}

	return root, container
}

func newRootCmd(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:   "guruji",
		Short: "Code Guruji - AI code review and explanation",
		Long: "guruji sends code to Google Gemini for review, explanation, bug finding,\n" +
			"line-by-line walkthroughs, comparison and refactoring, and keeps a local\n" +
			"history of the last analyses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		commands.NewAnalyzeCommand(container),
		commands.NewCompareCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewThemeCommand(container),
		commands.NewModelsCommand(container),
		commands.NewConfigCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewServeCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}

// ErrorMessage formats a command error for the terminal. Analysis and provider
// failures get the friendly wording; everything else is printed as is.
func ErrorMessage(err error) string {
	var (
		providerErr  *domain.ProviderError
		exhaustedErr *domain.ExhaustedError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &providerErr), errors.As(err, &exhaustedErr),
		errors.Is(err, domain.ErrMissingCredential):
		return domain.UserMessage(err)
	default:
		return err.Error()
	}
}
