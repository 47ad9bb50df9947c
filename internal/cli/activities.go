package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"iaq-workers/pkg/registry"
)

// NewActivitiesCommand manages the activity registry consumed by process
// modellers.
func NewActivitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Print the service task catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(registry.Catalog(time.Now()))
		},
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the catalogue to a registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := registry.Catalog(time.Now()).Save(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	export.Flags().StringVar(&out, "out", "configs/activity-registry.json", "registry file to write")

	var path string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a registry file covers every service task",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if missing := reg.Diff(registry.Catalog(time.Now())); len(missing) > 0 {
				return fmt.Errorf("registry is missing task types: %s", strings.Join(missing, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
	validate.Flags().StringVar(&path, "path", "configs/activity-registry.json", "registry file to check")

	cmd.AddCommand(export, validate)
	return cmd
}
