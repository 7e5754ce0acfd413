package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	suggestCode     string
	suggestFile     string
	suggestLanguage string
	suggestTask     string
	suggestOutput   string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest-algorithms",
	Short: "Ask the model for more efficient algorithms",
	Long: `Ask the model to identify algorithms in the given code and propose more
efficient alternatives, including complexity analysis.

Code is taken from --code, from --file, or from stdin when neither is set.

Examples:
  critiq suggest-algorithms --language go --file sort.go
  cat search.py | critiq suggest-algorithms --language python --task "find duplicates"`,
	RunE: runSuggest,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	suggestCmd.Flags().StringVar(&suggestCode, "code", "", "code to analyze")
	suggestCmd.Flags().StringVarP(&suggestFile, "file", "f", "", "read the code from this file")
	suggestCmd.Flags().StringVarP(&suggestLanguage, "language", "l", "", "programming language of the code (required)")
	suggestCmd.Flags().StringVarP(&suggestTask, "task", "t", "", "what the code is supposed to accomplish")
	suggestCmd.Flags().StringVarP(&suggestOutput, "output", "o", "", "write the result as JSON to this file")
	_ = suggestCmd.MarkFlagRequired("language")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	code, err := resolveSuggestCode(cmd.InOrStdin())
	if err != nil {
		return err
	}

	appInstance, cleanup, err := initApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	analysis, err := appInstance.Reviewer.SuggestAlgorithms(ctx, code, suggestLanguage, suggestTask)
	if err != nil {
		return err
	}

	printReview(analysis.Review)

	if suggestOutput != "" {
		if err := writeOutputFile(suggestOutput, analysis); err != nil {
			return err
		}
		successColor.Printf("\n✓ result written to %s\n", suggestOutput)
	}
	return nil
}

// resolveSuggestCode picks the code source: flag, file, then stdin.
func resolveSuggestCode(stdin io.Reader) (string, error) {
	if suggestCode != "" {
		return suggestCode, nil
	}
	if suggestFile != "" {
		data, err := os.ReadFile(suggestFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", suggestFile, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read code from stdin: %w", err)
	}
	return string(data), nil
}
