package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/models"
	"github.com/workdeck/workdeck/internal/project"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project management commands",
	}

	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectUpdateCmd())
	cmd.AddCommand(newProjectDeleteCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var (
		configPath  string
		name        string
		description string
		metadata    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectCreate(cmd, configPath, project.CreateOpts{
				Name:        name,
				Description: description,
				Metadata:    models.Metadata(metadata),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&metadata, "metadata", "", "metadata as a JSON object")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runProjectCreate(cmd *cobra.Command, configPath string, opts project.CreateOpts) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	p, err := project.Create(gdb, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s\n", p.ID)
	return nil
}

func newProjectListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "Lists all projects, most recently touched first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runProjectList(cmd *cobra.Command, configPath string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	projects, err := project.List(gdb)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tUPDATED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Name, 30), truncate(p.Description, 40), p.UpdatedAt)
	}
	w.Flush()
	return nil
}

func newProjectShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show project details",
		Long:  "Displays a project with its items in order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runProjectShow(cmd *cobra.Command, configPath, id string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	p, err := project.Get(gdb, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project not found: %s", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", p.ID)
	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", p.Description)
	}
	if string(p.Metadata) != "{}" {
		fmt.Fprintf(out, "Metadata:    %s\n", string(p.Metadata))
	}
	fmt.Fprintf(out, "Created:     %s\n", p.CreatedAt)
	fmt.Fprintf(out, "Updated:     %s\n", p.UpdatedAt)

	if len(p.Items) > 0 {
		fmt.Fprintln(out, "\nItems:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ORDER\tID\tTYPE\tTITLE")
		for _, it := range p.Items {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", it.Order, it.ID, it.Type, truncate(it.Title, 40))
		}
		w.Flush()
	}
	return nil
}

func newProjectUpdateCmd() *cobra.Command {
	var (
		configPath  string
		name        string
		description string
		metadata    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Long:  "Updates project fields. Only flags that were set are applied.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts project.UpdateOpts
			if cmd.Flags().Changed("name") {
				opts.Name = &name
			}
			if cmd.Flags().Changed("description") {
				opts.Description = &description
			}
			if cmd.Flags().Changed("metadata") {
				opts.Metadata = models.Metadata(metadata)
			}
			return runProjectUpdate(cmd, configPath, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&metadata, "metadata", "", "new metadata as a JSON object")
	return cmd
}

func runProjectUpdate(cmd *cobra.Command, configPath, id string, opts project.UpdateOpts) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	p, err := project.Update(gdb, id, opts)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", p.ID)
	return nil
}

func newProjectDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Long:  "Deletes a project along with all of its items and file cards.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectDelete(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func runProjectDelete(cmd *cobra.Command, configPath, id string) error {
	_, gdb, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	ok, err := project.Delete(gdb, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("project not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", id)
	return nil
}
