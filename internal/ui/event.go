package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockclock/internal/source"
)

func (a *App) eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage fixed calendar events",
		Long: `Manage the fixed events stored in the database. Events declared in the
config file are listed too but can only be changed there.`,
	}
	cmd.AddCommand(a.eventAddCmd(), a.eventListCmd(), a.eventRmCmd())
	return cmd
}

func (a *App) eventAddCmd() *cobra.Command {
	var (
		start string
		end   string
		color string
	)

	cmd := &cobra.Command{
		Use:     "add [title]",
		Short:   "Add a fixed event",
		Example: `  blockclock event add "Team Meeting" --start=11:00 --end=11:30`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := source.NewEvent(args[0], start, end, color)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CreateEvent(cmd.Context(), ev); err != nil {
				return fmt.Errorf("creating event: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s: %s %s-%s\n", ev.ID, ev.Title, ev.Start, ev.End)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM or 24:00, required)")
	cmd.Flags().StringVar(&color, "color", "", "Display color")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) eventListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fixed events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := a.events(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(w, "No events.")
				return nil
			}
			fmt.Fprintln(w, formatHeader("Events"))
			for _, ev := range events {
				PrintEvent(w, ev)
			}
			return nil
		},
	}
}

func (a *App) eventRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a stored event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("removing event: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed event %s\n", args[0])
			return nil
		},
	}
}
