package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/cli/helpers"
)

// NewCompareCommand creates the compare command. The compare prompt takes no
// difficulty, so the command exposes no --difficulty flag.
func NewCompareCommand(container *app.Container) *cobra.Command {
	var (
		language string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare two code snippets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := helpers.ReadSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			second, err := helpers.ReadSource(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			req := domain.AnalysisRequest{
				Mode:       domain.ModeCompare,
				Code:       first,
				SecondCode: second,
				Language:   helpers.ResolveLanguage(language, args[0], args[1]),
			}
			return runAnalysis(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), container, req, renderOptions{raw: raw})
		},
	}

	cmd.Flags().StringVarP(&language, "lang", "l", "", "Source language (inferred from the file extensions by default)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown answer without terminal styling")

	return cmd
}
