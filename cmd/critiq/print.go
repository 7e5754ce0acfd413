package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/critiq-ai/critiq/internal/core"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

// printCommitTable renders the reviewed commits as a table.
func printCommitTable(w io.Writer, commits []core.CommitRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Commit", "Date", "Author", "Message"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, c := range commits {
		table.Append([]string{
			c.ShortHash,
			c.When.Format("2006-01-02 15:04"),
			c.Author,
			firstLine(c.Message),
		})
	}
	table.Render()
}

// printReview writes one review to stdout. The model's text is printed
// exactly as received; color is only applied to the surrounding frame.
func printReview(review core.Review) {
	separator := strings.Repeat("═", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("📋 REVIEW: %s\n", review.Target)
	dimColor.Printf("   model: %s\n", review.Model)
	titleColor.Println(separator)
	fmt.Println()
	fmt.Println(review.Text)
}

// printSuggestions renders the structured form when the model followed the
// requested format.
func printSuggestions(review core.Review) {
	if review.Structured == nil || len(review.Structured.Suggestions) == 0 {
		return
	}

	thinSeparator := strings.Repeat("─", 60)
	fmt.Println()
	warnColor.Println(thinSeparator)
	warnColor.Printf("💡 SUGGESTIONS (%d)\n", len(review.Structured.Suggestions))
	warnColor.Println(thinSeparator)

	for i, s := range review.Structured.Suggestions {
		fmt.Println()
		printSeverityBadge(s.Severity)
		boldColor.Printf(" %s", s.FilePath)
		dimColor.Printf(":%d\n", s.LineNumber)

		if s.Category != "" {
			dimColor.Printf("   Category: %s\n", s.Category)
		}
		fmt.Println()
		infoColor.Printf("%s\n", s.Comment)

		if i < len(review.Structured.Suggestions)-1 {
			fmt.Println()
			dimColor.Println(strings.Repeat("─", 40))
		}
	}
	fmt.Println()
}

func printSeverityBadge(severity string) {
	switch severity {
	case "Critical":
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", severity)
	case "High":
		color.New(color.BgHiRed, color.FgWhite).Printf(" %s ", severity)
	case "Medium":
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", severity)
	case "Low":
		color.New(color.BgGreen, color.FgWhite).Printf(" %s ", severity)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", severity)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if len(line) > 72 {
		return line[:69] + "..."
	}
	return line
}
