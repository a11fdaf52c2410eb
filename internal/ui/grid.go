package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockclock/internal/timeline"
)

func (a *App) gridCmd() *cobra.Command {
	var (
		minutes int
		all     bool
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print today's block grid",
		Long: `Print today's blocks with the fixed events from the config file and the
database overlaid. The current block is highlighted.

By default only blocks holding an event and the current block are shown.`,
		Example: `  blockclock grid
  blockclock grid --minutes 30 --all
  blockclock grid --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if minutes == 0 {
				minutes = a.config.Schedule.BlockMinutes
			}
			if err := timeline.ValidateDuration(minutes); err != nil {
				return err
			}

			events, err := a.events(cmd.Context())
			if err != nil {
				return err
			}
			blocks, err := timeline.Generate(minutes, events)
			if err != nil {
				return err
			}

			opts := GridOpts{Now: time.Now(), Duration: minutes, All: all, Width: termWidth()}
			PrintGrid(cmd.OutOrStdout(), blocks, opts)

			if copyOut {
				if err := clipboard.WriteAll(GridText(blocks, opts)); err != nil {
					return fmt.Errorf("copying grid: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatMuted("Copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Block length in minutes (default: from config)")
	cmd.Flags().BoolVar(&all, "all", false, "Show every block, empty ones included")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the grid to the clipboard")

	return cmd
}

// events returns the config events followed by the stored ones.
func (a *App) events(ctx context.Context) ([]timeline.Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	stored, err := a.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return append(a.config.Events(), stored...), nil
}
