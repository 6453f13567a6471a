package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/version"
)

// NewVersionCommand prints build metadata. It never touches the container.
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show guruji version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout(), version.Get(), short)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}

func writeVersion(out io.Writer, info version.Info, short bool) error {
	if short {
		_, err := fmt.Fprintln(out, info.String())
		return err
	}
	commit := valueOr(info.Commit, "unknown")
	built := valueOr(info.BuildDate, "unknown")
	_, err := fmt.Fprintf(out, "guruji version %s\ncommit:   %s\nbuilt:    %s\ngo:       %s (%s)\n",
		info.Version, commit, built, info.GoVersion, info.Platform)
	return err
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
