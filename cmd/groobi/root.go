package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	fcolor "github.com/fatih/color"
	"github.com/spf13/cobra"

	"groobi/internal/config"
	"groobi/internal/infrastructure"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "groobi",
	Short: "Highlight changed rows between workbook snapshots",
	Long: `groobi finds the two most recent date-named snapshot sheets in an Excel
workbook, compares them row by row and fills every changed or new row of the
current snapshot with the highlight color. The workbook is rewritten in place.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			fcolor.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: standard locations)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// loadConfig reads --config, or the standard locations when it is unset
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

// newLogger writes JSON logs to stderr. Without --verbose only warnings and
// errors are shown so stdout stays readable.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	} else if logCfg.Level == "debug" || logCfg.Level == "info" {
		logCfg.Level = "warn"
	}

	logger, file, err := infrastructure.NewLogger(logCfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if file != nil {
			file.Close()
		}
	}
	return logger, closer, nil
}

// printSuccess prints a green check line unless --quiet is set
func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fcolor.New(fcolor.FgGreen).Fprintf(os.Stdout, "✔ "+format+"\n", args...)
	}
}

// printWarning prints a yellow warning line unless --quiet is set
func printWarning(format string, args ...interface{}) {
	if !quiet {
		fcolor.New(fcolor.FgYellow).Fprintf(os.Stdout, "⚠ "+format+"\n", args...)
	}
}

// printInfo prints an uncolored line unless --quiet is set
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printError prints a red error line to stderr
func printError(format string, args ...interface{}) {
	fcolor.New(fcolor.FgRed).Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
