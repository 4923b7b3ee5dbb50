package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"groobi/pkg/contracts"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			return printJSON(contracts.GetVersionInfo())
		}
		fmt.Println(contracts.GetFullVersionString())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
