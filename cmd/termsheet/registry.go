package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"termsheet-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "configs/activity-registry.json", "Path to registry file")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the registry for missing fields, duplicates and bad task types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed (%d activities).\n", len(reg.Activities))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTASK TYPE\tSTATUS\tVERSION\tTIMEOUT\tRETRIES")
			for _, a := range reg.Activities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					a.ID, a.TaskType, a.ImplementationStatus, a.Version, a.Timeout, a.Retries)
			}
			return tw.Flush()
		},
	}

	setCmd := &cobra.Command{
		Use:     "set <id> <field> <value>",
		Short:   "Update one field of an activity",
		Long:    "Fields: status, version, displayName, description, timeout, retries.",
		Example: `  termsheet registry set validate-term-sheet status verified`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.UpdateField(args[0], args[1], args[2], time.Now()); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("update leaves registry invalid: %w", err)
			}
			if err := reg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	}

	cmd.AddCommand(validateCmd, listCmd, setCmd)
	return cmd
}

