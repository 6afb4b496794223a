package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/item"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Item management commands",
	}

	cmd.AddCommand(newItemAddCmd())
	cmd.AddCommand(newItemListCmd())
	cmd.AddCommand(newItemShowCmd())
	cmd.AddCommand(newItemUpdateCmd())
	cmd.AddCommand(newItemDeleteCmd())
	cmd.AddCommand(newItemReorderCmd())
	return cmd
}

// itemFlagOpts registers the shared optional-field flags for add and update.
type itemFlagOpts struct {
	title           string
	content         string
	ideType         string
	remoteIDEType   string
	codingAgentType string
	codingAgentArgs string
	codingAgentEnv  string
	commandMode     string
	commandCwd      string
	commandHost     string
}

func (f *itemFlagOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "item title")
	cmd.Flags().StringVar(&f.content, "content", "", "type-dependent payload (note text, URL, path, command line)")
	cmd.Flags().StringVar(&f.ideType, "ide-type", "", "IDE identifier for ide items")
	cmd.Flags().StringVar(&f.remoteIDEType, "remote-ide-type", "", "IDE identifier for remote-ide items")
	cmd.Flags().StringVar(&f.codingAgentType, "agent-type", "", "coding agent identifier")
	cmd.Flags().StringVar(&f.codingAgentArgs, "agent-args", "", "extra coding agent arguments")
	cmd.Flags().StringVar(&f.codingAgentEnv, "agent-env", "", "coding agent environment variables")
	cmd.Flags().StringVar(&f.commandMode, "command-mode", "", "command mode (background or output)")
	cmd.Flags().StringVar(&f.commandCwd, "command-cwd", "", "working directory for command items")
	cmd.Flags().StringVar(&f.commandHost, "command-host", "", "remote host for command items")
}

// optional returns a pointer when the named flag was set, nil otherwise.
// Setting a flag to the empty string clears the stored column.
func optional(cmd *cobra.Command, name string, v *string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return v
}

func newItemAddCmd() *cobra.Command {
	var (
		configPath string
		itemType   string
		flags      itemFlagOpts
	)

	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add an item to a project",
		Long:  "Creates an item at the end of the project's order sequence.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemAdd(cmd, configPath, item.CreateOpts{
				ProjectID:       args[0],
				Type:            itemType,
				Title:           flags.title,
				Content:         flags.content,
				IDEType:         optional(cmd, "ide-type", &flags.ideType),
				RemoteIDEType:   optional(cmd, "remote-ide-type", &flags.remoteIDEType),
				CodingAgentType: optional(cmd, "agent-type", &flags.codingAgentType),
				CodingAgentArgs: optional(cmd, "agent-args", &flags.codingAgentArgs),
				CodingAgentEnv:  optional(cmd, "agent-env", &flags.codingAgentEnv),
				CommandMode:     optional(cmd, "command-mode", &flags.commandMode),
				CommandCwd:      optional(cmd, "command-cwd", &flags.commandCwd),
				CommandHost:     optional(cmd, "command-host", &flags.commandHost),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().StringVar(&itemType, "type", "note", "item type (note, ide, remote-ide, coding-agent, file, url, command)")
	flags.register(cmd)
	cmd.MarkFlagRequired("title")
	return cmd
}

func runItemAdd(cmd *cobra.Command, configPath string, opts item.CreateOpts) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	it, err := item.Create(gdb, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created item %s at position %d\n", it.ID, it.Order)
	return nil
}

func newItemListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's items in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemList(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runItemList(cmd *cobra.Command, configPath, projectID string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	items, err := item.ListByProject(gdb, projectID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tID\tTYPE\tTITLE\tCONTENT")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			it.Order, it.ID, it.Type, truncate(it.Title, 30), truncate(it.Content, 40))
	}
	w.Flush()
	return nil
}

func newItemShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show item details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runItemShow(cmd *cobra.Command, configPath, id string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	it, err := item.Get(gdb, id)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("item not found: %s", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", it.ID)
	fmt.Fprintf(out, "Project:  %s\n", it.ProjectID)
	fmt.Fprintf(out, "Type:     %s\n", it.Type)
	fmt.Fprintf(out, "Title:    %s\n", it.Title)
	fmt.Fprintf(out, "Order:    %d\n", it.Order)
	if it.Content != "" {
		fmt.Fprintf(out, "Content:  %s\n", it.Content)
	}
	for _, field := range []struct {
		label string
		value *string
	}{
		{"IDE:", it.IDEType},
		{"Remote IDE:", it.RemoteIDEType},
		{"Agent:", it.CodingAgentType},
		{"Agent args:", it.CodingAgentArgs},
		{"Agent env:", it.CodingAgentEnv},
		{"Cmd mode:", it.CommandMode},
		{"Cmd cwd:", it.CommandCwd},
		{"Cmd host:", it.CommandHost},
	} {
		if field.value != nil {
			fmt.Fprintf(out, "%-10s %s\n", field.label, *field.value)
		}
	}
	fmt.Fprintf(out, "Created:  %s\n", it.CreatedAt)
	fmt.Fprintf(out, "Updated:  %s\n", it.UpdatedAt)
	return nil
}

func newItemUpdateCmd() *cobra.Command {
	var (
		configPath string
		flags      itemFlagOpts
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item",
		Long:  "Updates item fields. Only flags that were set are applied; setting an optional flag to \"\" clears it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemUpdate(cmd, configPath, args[0], item.UpdateOpts{
				Title:           optional(cmd, "title", &flags.title),
				Content:         optional(cmd, "content", &flags.content),
				IDEType:         optional(cmd, "ide-type", &flags.ideType),
				RemoteIDEType:   optional(cmd, "remote-ide-type", &flags.remoteIDEType),
				CodingAgentType: optional(cmd, "agent-type", &flags.codingAgentType),
				CodingAgentArgs: optional(cmd, "agent-args", &flags.codingAgentArgs),
				CodingAgentEnv:  optional(cmd, "agent-env", &flags.codingAgentEnv),
				CommandMode:     optional(cmd, "command-mode", &flags.commandMode),
				CommandCwd:      optional(cmd, "command-cwd", &flags.commandCwd),
				CommandHost:     optional(cmd, "command-host", &flags.commandHost),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	flags.register(cmd)
	return cmd
}

func runItemUpdate(cmd *cobra.Command, configPath, id string, opts item.UpdateOpts) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	it, err := item.Update(gdb, id, opts)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("item not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", it.ID)
	return nil
}

func newItemDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemDelete(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runItemDelete(cmd *cobra.Command, configPath, id string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	ok, err := item.Delete(gdb, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", id)
	return nil
}

func newItemReorderCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reorder <project-id> <item-id>...",
		Short: "Reorder a project's items",
		Long:  "Assigns each listed item its position in the argument order. Pass the complete item set for the project.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemReorder(cmd, configPath, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runItemReorder(cmd *cobra.Command, configPath, projectID string, ids []string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := item.Reorder(gdb, projectID, ids); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d items\n", len(ids))
	return nil
}
