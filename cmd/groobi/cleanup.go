package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"groobi/internal/files"
)

func init() {
	rootCmd.AddCommand(newCleanupCmd())
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup <dir>",
		Short: "Remove temp files left behind by interrupted writes",
		Long: `The cleanup command deletes the temporary workbook files that a crashed or
killed process can leave next to the workbooks it was rewriting.

Example:
  groobi cleanup ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(args)
		},
	}
}

func runCleanup(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	removed, err := files.CleanupOrphans(args[0], logger)
	if err != nil {
		return fmt.Errorf("cleanup %s: %w", args[0], err)
	}

	if jsonOut {
		if removed == nil {
			removed = []string{}
		}
		return printJSON(map[string]interface{}{"directory": args[0], "removed": removed})
	}

	for _, path := range removed {
		printInfo("removed %s", path)
	}
	printSuccess("Removed %d orphaned temp file(s)", len(removed))
	return nil
}
