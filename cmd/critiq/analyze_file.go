package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzeFilePath     string
	analyzeFileLanguage string
	analyzeFileOutput   string
)

var analyzeFileCmd = &cobra.Command{
	Use:   "analyze-file",
	Short: "Review a single source file",
	Long: `Review a single source file. The language is detected from the file
extension unless given explicitly; oversized files are reviewed in chunks.

Examples:
  critiq analyze-file --file internal/server/router.go
  critiq analyze-file --file script.py --language python --output review.json`,
	RunE: runAnalyzeFile,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	analyzeFileCmd.Flags().StringVarP(&analyzeFilePath, "file", "f", "", "path of the file to review (required)")
	analyzeFileCmd.Flags().StringVarP(&analyzeFileLanguage, "language", "l", "", "programming language (default: detected from extension)")
	analyzeFileCmd.Flags().StringVarP(&analyzeFileOutput, "output", "o", "", "write the result as JSON to this file")
	_ = analyzeFileCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(analyzeFileCmd)
}

func runAnalyzeFile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	appInstance, cleanup, err := initApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	analysis, err := appInstance.Reviewer.AnalyzeFile(ctx, analyzeFilePath, analyzeFileLanguage)
	if err != nil {
		return err
	}

	dimColor.Printf("   %s (%s, %d lines)\n", analysis.FilePath, analysis.Language, analysis.Lines)
	printReview(analysis.Review)
	printSuggestions(analysis.Review)

	if analyzeFileOutput != "" {
		if err := writeOutputFile(analyzeFileOutput, analysis); err != nil {
			return err
		}
		successColor.Printf("\n✓ result written to %s\n", analyzeFileOutput)
	}
	return nil
}
