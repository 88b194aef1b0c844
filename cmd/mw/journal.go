package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/types"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Browse archived weeks",
	Long: `The journal holds one immutable snapshot per archived week, most
recent first. Only an entry's notes (and, retroactively, its
reflections) can be edited after archival.`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived weeks, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := engine.Journal()
		if len(entries) == 0 {
			fmt.Println("Archive is empty. End a week with 'mw week end'.")
			return nil
		}
		gray := color.New(color.FgHiBlack).SprintFunc()
		bold := color.New(color.Bold).SprintFunc()
		for _, e := range entries {
			fmt.Printf("%s  %s  %s\n", bold(e.WeekLabel), e.Date,
				gray(fmt.Sprintf("%d tasks, %d reflections  %s", len(e.Tasks), len(e.Reflections), shortID(e.ID))))
		}
		return nil
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveJournalEntry(args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s  %s\n\n", bold(entry.WeekLabel), gray("archiviert "+entry.ArchivedDate))

		for _, t := range entry.Tasks {
			printTaskLine(t, gray)
		}

		if len(entry.Reflections) > 0 {
			fmt.Println()
			dates := make([]string, 0, len(entry.Reflections))
			for d := range entry.Reflections {
				dates = append(dates, d)
			}
			sort.Strings(dates)
			for _, d := range dates {
				printReflection(bold(d), entry.Reflections[d], gray)
			}
		}

		if entry.Notes != "" {
			fmt.Printf("\n%s %s\n", gray("Notizen:"), entry.Notes)
		}
		return nil
	},
}

var journalNotesCmd = &cobra.Command{
	Use:   "notes <id> <text>",
	Short: "Replace an archived week's notes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveJournalEntry(args[0])
		if err != nil {
			return err
		}
		engine.UpdateJournalEntry(cmd.Context(), entry.ID, strings.Join(args[1:], " "))
		fmt.Printf("Notes for %s updated\n", entry.WeekLabel)
		return nil
	},
}

var journalReflectCmd = &cobra.Command{
	Use:   "reflect <id> <date> <mood|gratitude|improvement> <text>",
	Short: "Retroactively edit a reflection inside an archived week",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveJournalEntry(args[0])
		if err != nil {
			return err
		}
		date, err := parseDate(args[1])
		if err != nil {
			return err
		}
		field := types.ReflectionField(args[2])
		value := strings.Join(args[3:], " ")
		if err := engine.UpdateJournalReflection(cmd.Context(), entry.ID, date, field, value); err != nil {
			return err
		}
		fmt.Printf("Reflection (%s, %s) in %s updated\n", date, field, entry.WeekLabel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalShowCmd, journalNotesCmd, journalReflectCmd)
}
