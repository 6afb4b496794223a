package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/settings"
)

func newSettingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setting",
		Short: "Application setting commands",
	}

	cmd.AddCommand(newSettingGetCmd())
	cmd.AddCommand(newSettingSetCmd())
	cmd.AddCommand(newSettingUnsetCmd())
	cmd.AddCommand(newSettingListCmd())
	return cmd
}

func newSettingGetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gdb, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			value, ok, err := settings.Get(gdb, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("setting not found: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func newSettingSetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting (insert or overwrite)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gdb, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := settings.Set(gdb, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func newSettingUnsetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gdb, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			ok, err := settings.Delete(gdb, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("setting not found: %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}

func newSettingListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gdb, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			all, err := settings.All(gdb)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, "No settings found.")
				return nil
			}

			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, truncate(all[k], 60))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.workdeck/config.yaml)")
	return cmd
}
