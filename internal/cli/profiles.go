package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"iaq-workers/internal/common/validation"
)

// NewProfilesCommand lists the scoring profiles.
func NewProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List scoring profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, defaultProfile, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			def, err := reg.Lookup(defaultProfile)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				p, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				marker := " "
				if p.Name == def.Name {
					marker = "*"
				}
				op := ">"
				if p.Age.Inclusive {
					op = ">="
				}
				factors := make([]string, len(p.Factors))
				for i, f := range p.Factors {
					factors[i] = string(f)
				}
				fmt.Fprintf(w, "%s %s\n", marker, p.Name)
				fmt.Fprintf(w, "    tiers: Low < %d <= Moderate < %d <= High (max %d)\n", p.LowMax, p.HighMin, p.MaxScore())
				fmt.Fprintf(w, "    building age point: age %s %d\n", op, p.Age.Threshold)
				fmt.Fprintf(w, "    factors: %s\n", strings.Join(factors, ", "))
			}
			return nil
		},
	}
}

// NewSchemaCommand prints the survey JSON schema.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of survey answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(validation.SurveySchema())
		},
	}
}
