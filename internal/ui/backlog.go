package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockclock/internal/source"
)

func (a *App) backlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backlog",
		Short: "Manage the task backlog",
		Long: `The backlog holds tasks waiting for a block. Pick them from the TUI
with b.`,
	}
	cmd.AddCommand(a.backlogAddCmd(), a.backlogListCmd(), a.backlogDoneCmd())
	return cmd
}

func (a *App) backlogAddCmd() *cobra.Command {
	var (
		description string
		priority    string
		list        string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a backlog item",
		Example: `  blockclock backlog add "Review PR" --priority=high
  blockclock backlog add "Call the bank" --list=home --tags=phone,finance`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := source.NewItem(args[0], description, priority)
			if err != nil {
				return err
			}
			if list = strings.TrimSpace(list); list != "" {
				item.List = strings.ToLower(list)
			}
			item.Tags = source.ParseTags(tags)
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CreateItem(cmd.Context(), item); err != nil {
				return fmt.Errorf("creating backlog item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backlog item #%d: %s [%s]\n", item.ID, item.Title, item.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Longer description")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: low, medium or high")
	cmd.Flags().StringVar(&list, "list", source.DefaultList, "List to file the item under")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")

	return cmd
}

func (a *App) backlogListCmd() *cobra.Command {
	var (
		all    bool
		filter source.Filter
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List backlog items",
		Example: `  blockclock backlog list --search=report
  blockclock backlog list --list=home --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			items, err := a.repo.ListItems(cmd.Context(), all)
			if err != nil {
				return fmt.Errorf("listing backlog: %w", err)
			}
			w := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(w, "Backlog is empty.")
				return nil
			}
			if items = filter.Apply(items); len(items) == 0 {
				fmt.Fprintln(w, "No backlog items match.")
				return nil
			}
			fmt.Fprintln(w, formatHeader("Backlog"))
			width := termWidth()
			for _, item := range items {
				PrintItem(w, item, width)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed items")
	cmd.Flags().StringVar(&filter.Query, "search", "", "Only items whose title, description or tags contain this text")
	cmd.Flags().StringVar(&filter.List, "list", "", "Only items in this list")

	return cmd
}

func (a *App) backlogDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a backlog item done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CompleteItem(cmd.Context(), id); err != nil {
				return fmt.Errorf("completing backlog item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backlog item #%d done\n", id)
			return nil
		},
	}
}
