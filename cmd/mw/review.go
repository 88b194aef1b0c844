package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/review"
	"github.com/mindweek/mw/internal/types"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Year in review: totals over all archived weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := review.Summarize(engine.State())

		bold := color.New(color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", bold("Jahresrückblick"))
		fmt.Printf("  %s %d\n", gray("Erledigte Aufgaben: "), s.TotalCompleted)
		fmt.Printf("  %s %d\n", gray("Wochen dokumentiert:"), s.WeeksDocumented)

		if len(s.CategoryCounts) > 0 {
			fmt.Printf("\n%s\n", bold("Top Kategorien"))
			max := 0
			for _, c := range s.CategoryCounts {
				if c > max {
					max = c
				}
			}
			for _, cat := range types.AllCategories {
				count, ok := s.CategoryCounts[cat]
				if !ok {
					continue
				}
				theme := cat.Theme()
				bar := strings.Repeat("█", barWidth(count, max))
				fmt.Printf("  %-10s %s %d\n", string(cat), theme.Color.Sprint(bar), count)
			}
		}

		if len(s.TopPeople) > 0 {
			fmt.Printf("\n%s\n", bold("Top Menschen"))
			for _, p := range s.TopPeople {
				fmt.Printf("  %-20s %d\n", p.Name, p.Count)
			}
		}
		fmt.Println()
		return nil
	},
}

// barWidth scales a count to a 1-20 character bar.
func barWidth(count, max int) int {
	if max == 0 {
		return 0
	}
	w := count * 20 / max
	if w < 1 {
		w = 1
	}
	return w
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
