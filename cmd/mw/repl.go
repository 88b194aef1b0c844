package main

import (
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start an interactive shell for quick daily use: add and complete
tasks, toggle habits, browse the journal, and end the week without
re-invoking mw for every step.

Type 'help' in the shell for available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repl.New(&repl.Config{
			Engine:     engine,
			Classifier: newClassifier(),
		})
		if err != nil {
			return err
		}
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
