package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/card"
	"github.com/workdeck/workdeck/internal/db"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "File card management commands",
	}

	cmd.AddCommand(newCardAddCmd())
	cmd.AddCommand(newCardListCmd())
	cmd.AddCommand(newCardShowCmd())
	cmd.AddCommand(newCardUpdateCmd())
	cmd.AddCommand(newCardDeleteCmd())
	cmd.AddCommand(newCardFrontCmd())
	cmd.AddCommand(newCardRestackCmd())
	return cmd
}

func newCardAddCmd() *cobra.Command {
	var (
		configPath string
		filename   string
		content    string
		fromFile   string
		x, y       float64
	)

	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add a file card to a project",
		Long:  "Creates a file card on top of the project's stack. Content comes from --content or --from-file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", fromFile, err)
				}
				content = string(data)
				if filename == "" {
					filename = fromFile
				}
			}
			return runCardAdd(cmd, configPath, card.CreateOpts{
				ProjectID: args[0],
				Filename:  filename,
				Content:   content,
				PositionX: x,
				PositionY: y,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().StringVar(&filename, "filename", "", "display filename (required unless --from-file)")
	cmd.Flags().StringVar(&content, "content", "", "card content")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read content from a file")
	cmd.Flags().Float64Var(&x, "x", 0, "horizontal position as percent of workspace width")
	cmd.Flags().Float64Var(&y, "y", 0, "vertical position as percent of workspace height")
	return cmd
}

func runCardAdd(cmd *cobra.Command, configPath string, opts card.CreateOpts) error {
	cfg, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	opts.MaxContentBytes = int(cfg.MaxCardBytes)
	c, err := card.Create(gdb, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created card %s at z-index %d\n", c.ID, c.ZIndex)
	return nil
}

func newCardListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's file cards bottom-to-top",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardList(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runCardList(cmd *cobra.Command, configPath, projectID string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	cards, err := card.ListByProject(gdb, projectID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(cards) == 0 {
		fmt.Fprintln(out, "No cards found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Z\tID\tFILENAME\tPOSITION\tSTATE")
	for _, c := range cards {
		state := "normal"
		if c.IsMinimized {
			state = "minimized"
		} else if c.IsExpanded {
			state = "expanded"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f%%,%.1f%%\t%s\n",
			c.ZIndex, c.ID, truncate(c.Filename, 30), c.PositionX, c.PositionY, state)
	}
	w.Flush()
	return nil
}

func newCardShowCmd() *cobra.Command {
	var (
		configPath  string
		withContent bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show file card details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardShow(cmd, configPath, args[0], withContent)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().BoolVar(&withContent, "content", false, "print the full card content")
	return cmd
}

func runCardShow(cmd *cobra.Command, configPath, id string, withContent bool) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	c, err := card.Get(gdb, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("card not found: %s", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", c.ID)
	fmt.Fprintf(out, "Project:   %s\n", c.ProjectID)
	fmt.Fprintf(out, "Filename:  %s\n", c.Filename)
	fmt.Fprintf(out, "Position:  %.2f%%, %.2f%%\n", c.PositionX, c.PositionY)
	fmt.Fprintf(out, "Z-index:   %d\n", c.ZIndex)
	fmt.Fprintf(out, "Expanded:  %t\n", c.IsExpanded)
	fmt.Fprintf(out, "Minimized: %t\n", c.IsMinimized)
	fmt.Fprintf(out, "Size:      %d bytes\n", len(c.Content))
	fmt.Fprintf(out, "Created:   %s\n", c.CreatedAt)
	fmt.Fprintf(out, "Updated:   %s\n", c.UpdatedAt)
	if withContent {
		fmt.Fprintf(out, "\n%s\n", c.Content)
	}
	return nil
}

func newCardUpdateCmd() *cobra.Command {
	var (
		configPath string
		filename   string
		content    string
		x, y       float64
		expanded   bool
		minimized  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a file card",
		Long:  "Updates card fields. Only flags that were set are applied.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts card.UpdateOpts
			if cmd.Flags().Changed("filename") {
				opts.Filename = &filename
			}
			if cmd.Flags().Changed("content") {
				opts.Content = &content
			}
			if cmd.Flags().Changed("x") {
				opts.PositionX = &x
			}
			if cmd.Flags().Changed("y") {
				opts.PositionY = &y
			}
			if cmd.Flags().Changed("expanded") {
				opts.IsExpanded = &expanded
			}
			if cmd.Flags().Changed("minimized") {
				opts.IsMinimized = &minimized
			}
			return runCardUpdate(cmd, configPath, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().StringVar(&filename, "filename", "", "new filename")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().Float64Var(&x, "x", 0, "new horizontal position (percent)")
	cmd.Flags().Float64Var(&y, "y", 0, "new vertical position (percent)")
	cmd.Flags().BoolVar(&expanded, "expanded", false, "expanded state")
	cmd.Flags().BoolVar(&minimized, "minimized", false, "minimized state")
	return cmd
}

func runCardUpdate(cmd *cobra.Command, configPath, id string, opts card.UpdateOpts) error {
	cfg, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	opts.MaxContentBytes = int(cfg.MaxCardBytes)
	c, err := card.Update(gdb, id, opts)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("card not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated card %s\n", c.ID)
	return nil
}

func newCardDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a file card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardDelete(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runCardDelete(cmd *cobra.Command, configPath, id string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	ok, err := card.Delete(gdb, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("card not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", id)
	return nil
}

func newCardFrontCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "front <id>",
		Short: "Raise a card above its project's stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardFront(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runCardFront(cmd *cobra.Command, configPath, id string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	c, err := card.Front(gdb, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("card not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Card %s raised to z-index %d\n", c.ID, c.ZIndex)
	return nil
}

func newCardRestackCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "restack <project-id> <card-id>...",
		Short: "Restack a project's cards",
		Long:  "Assigns each listed card its position in the argument order, bottom first. Pass the complete card set for the project.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardRestack(cmd, configPath, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runCardRestack(cmd *cobra.Command, configPath, projectID string, ids []string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := card.Restack(gdb, projectID, ids); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restacked %d cards\n", len(ids))
	return nil
}
