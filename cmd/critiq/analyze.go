package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/critiq-ai/critiq/internal/core"
	"github.com/critiq-ai/critiq/internal/gitutil"
)

var (
	analyzeRepo    string
	analyzeCommits string
	analyzeOutput  string
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Review the commits of a git repository",
	Long: `Review the commits of a git repository, one model call per commit.

The repository may be a local path or a public repository URL; URLs are cloned
to a temporary directory for the run. The commit selection accepts a single
revision (HEAD, a tag, a hash) or a range like v1.0..HEAD; without --commits
the full history is reviewed.

Examples:
  critiq analyze --repo . --commits HEAD
  critiq analyze --repo /path/to/repo --commits v1.2..HEAD --output report.json
  critiq analyze --repo https://github.com/owner/repo`,
	RunE: runAnalyze,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	analyzeCmd.Flags().StringVar(&analyzeRepo, "repo", ".", "repository path or public repository URL")
	analyzeCmd.Flags().StringVar(&analyzeCommits, "commits", "", "revision or range to review (default: full history)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the result as JSON to this file")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "show commit diffs sizes and timing")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	appInstance, cleanup, err := initApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	titleColor.Println("🔍 critiq: repository analysis")
	dimColor.Printf("   target: %s\n", analyzeRepo)

	start := time.Now()
	var analysis *core.RepoAnalysis
	if gitutil.IsRemoteURL(analyzeRepo) {
		analysis, err = appInstance.Reviewer.AnalyzeRemoteRepo(ctx, analyzeRepo, analyzeCommits)
	} else {
		analysis, err = appInstance.Reviewer.AnalyzeRepo(ctx, analyzeRepo, analyzeCommits)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	printCommitTable(os.Stdout, analysis.Commits)

	for _, review := range analysis.Reviews {
		printReview(review)
		if analyzeVerbose {
			printSuggestions(review)
		}
	}

	if analyzeVerbose {
		dimColor.Printf("\n⏱  %d commits reviewed in %s\n",
			len(analysis.Reviews), time.Since(start).Round(time.Millisecond))
	}

	if analyzeOutput != "" {
		if err := writeOutputFile(analyzeOutput, analysis); err != nil {
			return err
		}
		successColor.Printf("\n✓ result written to %s\n", analyzeOutput)
	}
	return nil
}
