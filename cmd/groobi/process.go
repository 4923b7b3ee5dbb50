package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"groobi/internal/changes"
	"groobi/internal/files"
	"groobi/internal/services"
	api "groobi/pkg/contracts/api/v1"
)

var (
	processIgnore    []string
	processThreshold float64
	processHeaderRow int
	processDateOrder string
	processColor     string
	processNumeric   bool
)

func init() {
	rootCmd.AddCommand(newProcessCmd())
}

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <workbook>",
		Short: "Highlight rows that changed since the previous snapshot",
		Long: `The process command compares the two newest snapshot sheets of a workbook and
fills every changed or new row of the current snapshot.

Flags override the engine section of the config file.

Example:
  groobi process inventory.xlsx
  groobi process inventory.xlsx --ignore "LOT #" --ignore Notes
  groobi process inventory.xlsx --threshold 0.3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args)
		},
	}

	cmd.Flags().StringSliceVar(&processIgnore, "ignore", nil, "Column to leave out of the comparison (repeatable)")
	cmd.Flags().Float64Var(&processThreshold, "threshold", 0, "Noise threshold in [0,1]")
	cmd.Flags().IntVar(&processHeaderRow, "header-row", 0, "1-based row holding column names")
	cmd.Flags().StringVar(&processDateOrder, "date-order", "", "Order of month and day in sheet names (MD or DM)")
	cmd.Flags().StringVar(&processColor, "color", "", "Highlight fill as 6 hex digits")
	cmd.Flags().BoolVar(&processNumeric, "numeric-text", false, "Compare numeric text equal to the number")
	return cmd
}

// engineOptions layers the flags the user set over the configured options
func engineOptions(cmd *cobra.Command, opts changes.Options) changes.Options {
	flags := cmd.Flags()
	if flags.Changed("ignore") {
		opts.IgnoredColumns = processIgnore
	}
	if flags.Changed("threshold") {
		opts.NoiseThreshold = processThreshold
	}
	if flags.Changed("header-row") {
		opts.HeaderRow = processHeaderRow
	}
	if flags.Changed("date-order") {
		opts.DateOrder = changes.DateOrder(strings.ToUpper(processDateOrder))
	}
	if flags.Changed("color") {
		opts.HighlightColor = strings.TrimPrefix(processColor, "#")
	}
	if flags.Changed("numeric-text") {
		opts.NumericTextAsNumber = processNumeric
	}
	return opts
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := changes.NewEngine(engineOptions(cmd, cfg.Engine.Options()), files.NewAtomicWriter(logger), logger)
	if err != nil {
		return err
	}

	service := services.NewProcessService(engine, nil, cfg.Engine.CleanupOrphans, logger)
	result, err := service.ProcessFile(context.Background(), args[0])
	if err != nil {
		return err
	}

	resp := services.NewProcessFileResponse(result)
	if jsonOut {
		return printJSON(resp)
	}
	printProcessResult(resp)
	return nil
}

func printProcessResult(resp api.ProcessFileResponse) {
	printInfo("Compared %q with %q in %s", resp.CurrentSheet, resp.PreviousSheet, resp.ProcessedFile)
	if verbose {
		printInfo("Columns: %s", strings.Join(resp.Columns, ", "))
	}
	for _, column := range resp.SuppressedColumns {
		printWarning("Column %q skipped as noise", column)
	}
	if !resp.ChangesFound {
		printSuccess("No changes found")
		return
	}
	printSuccess("Highlighted %d changed row(s): %s", len(resp.ChangedRows), joinRows(resp.ChangedRows))
}

func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}
