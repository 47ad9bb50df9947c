package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"iaq-workers/internal/common/validation"
	"iaq-workers/internal/iaq"
)

// NewEvaluateCommand creates the evaluate subcommand
func NewEvaluateCommand() *cobra.Command {
	var (
		answersPath string
		profileName string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a survey answers file",
		Long: `Read survey answers as JSON, validate them and print the factor scores,
total, risk tier and recommendations.

Answers may use enum codes ("window_only") or the questionnaire labels
("Window only", "Yes"/"No"). Use --answers - to read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}

			log := commandLogger(cmd)

			reg, defaultProfile, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			if profileName == "" {
				profileName = defaultProfile
			}
			profile, err := reg.Lookup(profileName)
			if err != nil {
				return err
			}

			raw, err := readAnswers(answersPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			log.Debug("scoring answers", map[string]interface{}{
				"profile": profile.Name,
				"answers": answersPath,
			})
			result, err := assess(raw, profile)
			if err != nil {
				log.WithError(err).Warn("assessment failed", nil)
				return err
			}
			log.Info("assessment scored", map[string]interface{}{
				"profile":    result.Profile,
				"totalScore": result.TotalScore,
				"riskTier":   result.RiskTier,
			})

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&answersPath, "answers", "a", "", "path to the answers JSON file, or - for stdin")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "scoring profile name or alias")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

func readAnswers(path string, stdin io.Reader) (map[string]interface{}, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return raw, nil
}

// assess runs the same normalisation and validation as the
// validate-iaq-survey worker before scoring.
func assess(raw map[string]interface{}, profile iaq.ScoringProfile) (iaq.AssessmentResult, error) {
	survey, err := validation.ValidateSurvey(raw, profile)
	if err != nil {
		return iaq.AssessmentResult{}, err
	}
	if !survey.Validation.Valid {
		return iaq.AssessmentResult{}, fmt.Errorf("invalid answers: %s", survey.Validation.Summary())
	}
	return iaq.Assess(survey.Answers, profile)
}

var tierColors = map[iaq.RiskTier]*color.Color{
	iaq.TierLow:      color.New(color.FgGreen, color.Bold),
	iaq.TierModerate: color.New(color.FgYellow, color.Bold),
	iaq.TierHigh:     color.New(color.FgRed, color.Bold),
}

func printResult(w io.Writer, r iaq.AssessmentResult) {
	header := color.New(color.FgCyan, color.Bold)

	header.Fprintf(w, "IAQ assessment (%s profile)\n", r.Profile)
	fmt.Fprintln(w, strings.Repeat("-", 40))

	maxTotal := 0
	for _, fs := range r.FactorScores {
		maxPoints := iaq.MaxPoints(fs.Factor)
		maxTotal += maxPoints
		fmt.Fprintf(w, "  %-16s %d/%d\n", fs.Factor, fs.Points, maxPoints)
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  %-16s %d/%d\n", "Total", r.TotalScore, maxTotal)

	fmt.Fprint(w, "  Risk tier        ")
	tierColors[r.RiskTier].Fprintln(w, r.RiskTier)

	if len(r.Recommendations) == 0 {
		return
	}
	fmt.Fprintln(w)
	header.Fprintln(w, "Recommendations")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}
