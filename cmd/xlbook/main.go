// Package main provides the CLI entry point for xlbook.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hiraku6/xlbook-go/pkg/xlbook"
	"github.com/hiraku6/xlbook-go/pkg/xlbook/output"
)

var pretty bool

func main() {
	engine := xlbook.NewEngine(nil, nil)

	rootCmd := &cobra.Command{
		Use:   "xlbook",
		Short: "Read and edit xlsx workbooks",
		Long: `xlbook reads and edits xlsx workbooks: cell data, worksheets, formulas,
formatting, and charts. Every command prints a JSON result; a failed
operation prints its result and exits non-zero.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(
		newReadCmd(engine),
		newWriteCmd(engine),
		newSheetsCmd(engine),
		newAddSheetCmd(engine),
		newSetCellCmd(engine),
		newSetFormulaCmd(engine),
		newFormatCmd(engine),
		newChartCmd(engine),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// emit prints the operation result as JSON and exits non-zero for a failed
// operation, keeping the result itself on stdout for callers to parse.
func emit(v any, ok bool) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	if !ok {
		os.Exit(1)
	}
	return nil
}

func newReadCmd(e *xlbook.Engine) *cobra.Command {
	var sheet, rangeRef string

	cmd := &cobra.Command{
		Use:   "read [file.xlsx]",
		Short: "Read cell data from a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := e.Read(args[0], sheet, rangeRef)
			return emit(res, res.Success)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default: active sheet)")
	cmd.Flags().StringVar(&rangeRef, "range", "", `Range like "A1:C10", "B5", or "D:D" (default: all used rows)`)
	return cmd
}

func newWriteCmd(e *xlbook.Engine) *cobra.Command {
	var sheet, dataJSON, headersJSON string

	cmd := &cobra.Command{
		Use:   "write [file.xlsx]",
		Short: "Write a grid of data to a worksheet, replacing its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]any
			if err := json.Unmarshal([]byte(dataJSON), &rows); err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}
			var headers []string
			if headersJSON != "" {
				if err := json.Unmarshal([]byte(headersJSON), &headers); err != nil {
					return fmt.Errorf("invalid --headers: %w", err)
				}
			}
			res := e.Write(args[0], rows, sheet, headers)
			return emit(res, res.Success)
		},
	}

	cmd.Flags().StringVar(&dataJSON, "data", "", `Rows as a JSON array of arrays, e.g. '[["Alice",30]]'`)
	cmd.Flags().StringVar(&headersJSON, "headers", "", `Header row as a JSON array, e.g. '["Name","Age"]'`)
	cmd.Flags().StringVar(&sheet, "sheet", "", "Target worksheet name (default: active sheet)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newSheetsCmd(e *xlbook.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [file.xlsx]",
		Short: "List worksheets with their dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := e.WorksheetInfo(args[0])
			return emit(res, res.Success)
		},
	}
}

func newAddSheetCmd(e *xlbook.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "add-sheet [file.xlsx] [name]",
		Short: "Add an empty worksheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := e.AddWorksheet(args[0], args[1])
			return emit(res, res.Success)
		},
	}
}

func newSetCellCmd(e *xlbook.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "set-cell [file.xlsx] [sheet] [cell] [value]",
		Short: "Set a single cell's value",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := e.UpdateCell(args[0], args[1], args[2], parseValue(args[3]))
			return emit(res, res.Success)
		},
	}
}

func newSetFormulaCmd(e *xlbook.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "set-formula [file.xlsx] [sheet] [cell] [formula]",
		Short: "Store a formula in a cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := e.ApplyFormula(args[0], args[1], args[2], args[3])
			return emit(res, res.Success)
		},
	}
}

func newFormatCmd(e *xlbook.Engine) *cobra.Command {
	var optionsJSON string

	cmd := &cobra.Command{
		Use:   "format [file.xlsx] [sheet] [range]",
		Short: "Apply formatting to a cell range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := xlbook.ParseFormatOptions([]byte(optionsJSON))
			if err != nil {
				return fmt.Errorf("invalid --options: %w", err)
			}
			res := e.FormatCells(args[0], args[1], args[2], opts)
			return emit(res, res.Success)
		},
	}

	cmd.Flags().StringVar(&optionsJSON, "options", "", `Formatting as JSON, e.g. '{"bold":true,"font_size":14}'`)
	_ = cmd.MarkFlagRequired("options")
	return cmd
}

func newChartCmd(e *xlbook.Engine) *cobra.Command {
	var chartType, title, anchor string

	cmd := &cobra.Command{
		Use:   "chart [file.xlsx] [sheet] [data-range]",
		Short: "Create a chart from a data range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := e.CreateChart(args[0], args[1], args[2], chartType, title, anchor)
			return emit(res, res.Success)
		},
	}

	cmd.Flags().StringVar(&chartType, "type", "line", "Chart type: line, bar, pie, scatter")
	cmd.Flags().StringVar(&title, "title", "", "Chart title")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Top-left anchor cell (default: E5)")
	return cmd
}

// parseValue interprets a CLI argument as the most specific scalar it can
// be: integer, then float, then bool, falling back to the raw string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
