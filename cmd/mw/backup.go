package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/backup"
)

var importYes bool

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export all data as a backup file",
	Long: `Write a byte-for-byte copy of the persisted data to a backup file
(default ` + backup.DefaultFilename + `). The backup contains tasks, the
journal, habits, workouts, people, goals, intentions, and
reflections.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := backup.DefaultFilename
		if len(args) == 1 {
			path = args[0]
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()

		if err := backup.Export(cmd.Context(), store, f); err != nil {
			if errors.Is(err, backup.ErrNoData) {
				return fmt.Errorf("nothing to export yet")
			}
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Exported to %s\n", green("✓"), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace all data with a backup file",
	Long: `Overwrite the persisted data wholesale with a backup file. The file
must be a JSON object containing at least a 'tasks' or 'journal'
array; anything else is rejected and the existing data is left
untouched. Asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		// Validate before asking, so a bad file fails fast.
		if err := backup.Validate(data); err != nil {
			return err
		}

		if !importYes {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s This replaces ALL current data with the backup. Unsaved changes are lost.\n", yellow("!"))
			fmt.Print("Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := backup.Import(cmd.Context(), store, data); err != nil {
			return err
		}
		engine.Reload(cmd.Context())

		green := color.New(color.FgGreen).SprintFunc()
		st := engine.State()
		fmt.Printf("%s Imported %d tasks and %d journal entries\n", green("✓"), len(st.Tasks), len(st.Journal))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importYes, "yes", false, "Skip the confirmation prompt")
}
