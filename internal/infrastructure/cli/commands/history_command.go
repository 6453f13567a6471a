package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/application/history"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past analyses",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryShowCommand(container),
		newHistoryDeleteCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryImportCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List history entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryService == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			return printHistoryEntries(cmd.OutOrStdout(), container.HistoryService.List(), MsgNoHistoryRecorded, time.Now())
		},
	}
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search code, mode and language of past analyses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryService == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			entries := container.HistoryService.Search(strings.Join(args, " "))
			return printHistoryEntries(cmd.OutOrStdout(), entries, MsgNoMatchingHistory, time.Now())
		},
	}
}

// newHistoryShowCommand creates the 'history show' subcommand
func newHistoryShowCommand(container *app.Container) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the code and result of one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryService == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			entry, ok := container.HistoryService.Get(args[0])
			if !ok {
				return fmt.Errorf("history entry %s not found", args[0])
			}
			renderer := helpers.NewRenderer(cmd.OutOrStdout(), currentTheme(container), raw)
			return renderer.Render(entryMarkdown(entry))
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}

// newHistoryDeleteCommand creates the 'history delete' subcommand
func newHistoryDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryService == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			if err := container.HistoryService.Delete(args[0]); err != nil {
				return fmt.Errorf("failed to delete history entry: %w", err)
			}
			return nil
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.InOrStdin(), cmd.OutOrStdout(), container, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path|-]",
		Short: "Export history as a JSON array",
		Long:  "Export writes the history to path, to standard output for \"-\", or to code-guruji-history-YYYY-MM-DD.json.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := history.ExportFileName(time.Now())
			if len(args) == 1 {
				path = args[0]
			}
			return exportHistory(cmd.OutOrStdout(), container, path)
		},
	}
}

// newHistoryImportCommand creates the 'history import' subcommand
func newHistoryImportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path|->",
		Short: "Replace history with a previously exported JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importHistory(cmd.InOrStdin(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

// printHistoryEntries prints one line per entry
func printHistoryEntries(out io.Writer, entries []domain.HistoryEntry, emptyMessage string, now time.Time) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, emptyMessage)
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(out, "%s | %s | %s | %s | %s\n",
			entry.ID,
			humanize.RelTime(entry.Timestamp, now, "ago", "from now"),
			entry.Mode,
			entry.Language,
			preview(entry.Code))
	}

	return nil
}

// clearHistory asks for confirmation unless yes is set
func clearHistory(in io.Reader, out io.Writer, container *app.Container, yes bool) error {
	if container.HistoryService == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if !yes && !helpers.PromptForConfirmation(out, bufio.NewReader(in), "Clear all history?") {
		fmt.Fprintln(out, MsgClearCancelled)
		return nil
	}

	if err := container.HistoryService.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(out, MsgHistoryCleared)
	return nil
}

// exportHistory writes the export document to path or stdout
func exportHistory(out io.Writer, container *app.Container, path string) error {
	if container.HistoryService == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if path == helpers.StdinArg {
		return container.HistoryService.Export(out)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.SecureFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := container.HistoryService.Export(f); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported %d entries to %s\n", len(container.HistoryService.List()), path)
	return nil
}

// importHistory replaces the stored history with the document at path
func importHistory(in io.Reader, out io.Writer, container *app.Container, path string) error {
	if container.HistoryService == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	src := in
	if path != helpers.StdinArg {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}

	n, err := container.HistoryService.Import(src)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d entries\n", n)
	return nil
}

// entryMarkdown lays out one entry for rendering
func entryMarkdown(entry domain.HistoryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", entry.Mode.Title())
	fmt.Fprintf(&b, "*%s · %s · %s*\n\n", entry.Timestamp.Local().Format(TimestampFormat), entry.Language, entry.Difficulty)

	if entry.Mode == domain.ModeCompare {
		first, second := domain.SplitComparison(entry.Code)
		b.WriteString("## Code 1\n\n")
		writeFence(&b, entry.Language, first)
		b.WriteString("## Code 2\n\n")
		writeFence(&b, entry.Language, second)
	} else {
		b.WriteString("## Code\n\n")
		writeFence(&b, entry.Language, entry.Code)
	}

	b.WriteString("## Result\n\n")
	b.WriteString(entry.Result)
	return b.String()
}

func writeFence(b *strings.Builder, lang domain.Language, code string) {
	fmt.Fprintf(b, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

// preview flattens code to a single short line
func preview(code string) string {
	flat := strings.Join(strings.Fields(code), " ")
	runes := []rune(flat)
	if len(runes) <= PreviewLength {
		return flat
	}
	return string(runes[:PreviewLength]) + "..."
}
