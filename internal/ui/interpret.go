package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockclock/internal/llm"
	"github.com/javiermolinar/blockclock/internal/source"
)

const interpretTimeout = 60 * time.Second

func (a *App) interpretCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "interpret [text]",
		Short: "Turn free text into a task with the LLM",
		Long: `Ask the configured LLM provider to turn a request such as
"remind me to call the bank for half an hour" into a task.

With --save the task is added to the backlog.`,
		Example: `  blockclock interpret "write the quarterly report, about an hour"
  blockclock interpret --save "call the bank"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupLogging(false); err != nil {
				return err
			}
			client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, interpretTimeout)
			defer cancel()

			text := strings.Join(args, " ")
			result, err := llm.NewInterpreter(client).Interpret(ctx, text, a.config.Schedule.BlockMinutes)
			if err != nil {
				return err
			}
			a.log.Debug().Str("title", result.Task.Title).Int("blocks", result.Blocks).Msg("interpreted")
			printInterpretation(cmd.OutOrStdout(), result, a.config.Schedule.BlockMinutes)

			if !save {
				return nil
			}
			item, err := source.NewItem(result.Task.Title, result.Task.Description, result.Task.Priority)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("saving to backlog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved as backlog item #%d\n", item.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Add the task to the backlog")

	return cmd
}

func printInterpretation(w io.Writer, result *llm.Interpretation, duration int) {
	fmt.Fprintln(w, formatHeader(result.Task.Title))
	if result.Task.Description != "" {
		fmt.Fprintln(w, "  "+result.Task.Description)
	}
	fmt.Fprintf(w, "  priority %s · %d block(s) · %s\n",
		result.Task.Priority, result.Blocks, FormatDuration(result.Blocks*duration))
	if result.Reply != "" {
		fmt.Fprintln(w, formatMuted("  "+result.Reply))
	}
}
