// Package cli implements the iaq-assess command line tool.
package cli

import (
	"github.com/spf13/cobra"

	"iaq-workers/internal/common/config"
	"iaq-workers/internal/common/logger"
	"iaq-workers/internal/iaq"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for iaq-assess
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iaq-assess",
		Short: "Indoor air quality risk self-assessment",
		Long: `iaq-assess scores a completed indoor air quality survey into a risk
tier with recommendations, using the same rules as the assessment workers.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file declaring custom scoring profiles")
	cmd.PersistentFlags().String("log-level", "warn", "log level for diagnostics written to stderr")

	cmd.AddCommand(NewEvaluateCommand())
	cmd.AddCommand(NewProfilesCommand())
	cmd.AddCommand(NewSchemaCommand())
	cmd.AddCommand(NewActivitiesCommand())

	return cmd
}

// loadRegistry returns the preset registry, extended with the profiles of
// the --config file when one is given.
func loadRegistry(cmd *cobra.Command) (*iaq.Registry, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		reg, err := iaq.NewRegistry()
		return reg, iaq.ProfileNineFactor, err
	}

	a, err := config.LoadAssessment(path)
	if err != nil {
		return nil, "", err
	}
	reg, err := a.Registry()
	if err != nil {
		return nil, "", err
	}
	return reg, a.DefaultProfile, nil
}

// commandLogger logs to stderr so diagnostics never mix with command output.
func commandLogger(cmd *cobra.Command) logger.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewStructured(level, "console", "stderr").
		WithFields(map[string]interface{}{"command": cmd.Name()})
}
