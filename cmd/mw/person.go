package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Manage people linked to tasks",
}

var personAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a person",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := engine.AddPerson(cmd.Context(), strings.Join(args, " "))
		fmt.Printf("Added %s %s\n", p.Name, color.New(color.FgHiBlack).Sprint(shortID(p.ID)))
		return nil
	},
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List people",
	RunE: func(cmd *cobra.Command, args []string) error {
		people := engine.People()
		if len(people) == 0 {
			fmt.Println("No people yet.")
			return nil
		}
		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, p := range people {
			fmt.Printf("%s  %s\n", p.Name, gray(shortID(p.ID)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(personCmd)
	personCmd.AddCommand(personAddCmd, personListCmd)
}
