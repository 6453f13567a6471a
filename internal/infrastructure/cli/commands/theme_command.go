package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/domain"
)

// NewThemeCommand creates the theme command. Without a subcommand it prints the theme.
func NewThemeCommand(container *app.Container) *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the light/dark preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTheme(cmd.OutOrStdout(), container)
		},
	}

	themeCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showTheme(cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:       "set <light|dark>",
			Short:     "Persist a theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
			RunE: func(cmd *cobra.Command, args []string) error {
				return setTheme(cmd.OutOrStdout(), container, args[0])
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if container.HistoryService == nil {
					return fmt.Errorf(ErrHistoryStoreUnavailable)
				}
				fmt.Fprintln(cmd.OutOrStdout(), container.HistoryService.ToggleTheme())
				return nil
			},
		},
	)

	return themeCmd
}

func showTheme(out io.Writer, container *app.Container) error {
	if container.HistoryService == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}
	fmt.Fprintln(out, container.HistoryService.Theme())
	return nil
}

func setTheme(out io.Writer, container *app.Container, raw string) error {
	if container.HistoryService == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}
	theme, ok := domain.ParseTheme(raw)
	if !ok {
		return fmt.Errorf("unknown theme %q (expected light or dark)", raw)
	}
	if err := container.HistoryService.SetTheme(theme); err != nil {
		return err
	}
	fmt.Fprintln(out, theme)
	return nil
}
