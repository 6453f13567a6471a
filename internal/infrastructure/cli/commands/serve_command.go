package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
)

// NewServeCommand creates the serve command
func NewServeCommand(container *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis and history API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.AnalysisService == nil || container.HistoryService == nil {
				return fmt.Errorf(ErrAnalysisServiceUnavailable)
			}
			if addr == "" {
				addr = container.Config.GetServerAddr()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
			return container.NewServer().ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	return cmd
}
