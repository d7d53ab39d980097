// Command darkness runs the stages of the image darkness assessment
// pipeline. Each subcommand takes a data file and a JSON parameters file and
// writes a single JSON document; failures are reported inside the document
// and the process always exits 0, so callers inspect the status field
// rather than the exit code.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"go-darkness-grader/internal/config"
	"go-darkness-grader/internal/container"
	apperrors "go-darkness-grader/internal/errors"
	"go-darkness-grader/internal/stage"
	"go-darkness-grader/pkg/models"
)

var (
	outputPath string
	pretty     bool
)

var rootCmd = &cobra.Command{
	Use:           "darkness",
	Short:         "Image darkness and quality assessment pipeline",
	Long:          "Runs the pixel count, darkness analysis and report stages of the image darkness assessment pipeline, one stage per invocation.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var countCmd = &cobra.Command{
	Use:   "count <image> <params.json>",
	Short: "Count dark pixels in an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return emitFailure(err)
		}
		return emit(runner.RunCountFile(context.Background(), args[0], args[1]))
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <count.json> <params.json>",
	Short: "Classify a pixel count result into a darkness bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return emitFailure(err)
		}
		return emit(runner.RunAnalyzeFile(args[0], args[1]))
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <analysis.json> <params.json>",
	Short: "Generate the quality report from an analysis result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return emitFailure(err)
		}
		return emit(runner.RunReportFile(args[0], args[1]))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write the result document to a file instead of stdout")
	reportCmd.Flags().BoolVar(&pretty, "pretty", false, "Render the report for a human instead of emitting JSON")
	rootCmd.AddCommand(countCmd, analyzeCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Bad usage still produces a well-formed error document and a
		// clean exit; consumers rely on status, not exit codes.
		_ = emitFailure(apperrors.NewUsageError(err.Error(), nil))
	}
	os.Exit(0)
}

func newRunner() (*stage.Runner, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, apperrors.NewUsageError("invalid configuration", err)
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to initialize pipeline", err)
	}
	return c.Runner(), nil
}

func emitFailure(err error) error {
	return emit(models.NewErrorResult(err))
}

func emit(doc any) error {
	if pretty {
		if res, ok := doc.(models.ReportResult); ok {
			renderReport(res)
			return nil
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Printf("{\"status\":%q,\"error\":%q}\n", models.StatusError, err.Error())
		return nil
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
			return emitToStdout(models.NewErrorResult(
				apperrors.NewIOError("failed to write output file "+outputPath, err)))
		}
		return nil
	}
	fmt.Println(string(data))
	return nil
}

func emitToStdout(doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Printf("{\"status\":%q,\"error\":%q}\n", models.StatusError, err.Error())
		return nil
	}
	fmt.Println(string(data))
	return nil
}

// renderReport prints a colored human rendering of the report.
func renderReport(res models.ReportResult) {
	category := res.QualityCategory
	switch category {
	case models.QualityHigh:
		category = color.GreenString(category)
	case models.QualityMedium:
		category = color.YellowString(category)
	case models.QualityLow:
		category = color.RedString(category)
	}

	fmt.Printf("Quality: %s (score %.2f / 100)\n", category, res.QualityScore)
	fmt.Printf("Thresholds: darkness %.1f%%, quality %.1f\n",
		res.Thresholds.DarknessThreshold, res.Thresholds.QualityThreshold)
	if len(res.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range res.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Printf("Report %s generated at %s\n", res.Metadata.ReportID, res.Metadata.GeneratedAt)
}
