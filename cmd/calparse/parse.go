// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/calparse/internal/export"
)

var parseCmd = &cobra.Command{
	Use:   "parse <pdf>",
	Short: "Extract the events of one calendar PDF",
	Long: `Parse reads a calendar PDF and writes one row per event with columns
date, Event Name, Meeting Place and Person. A calendar page without events
yields a single row carrying only its date. Pages without a date or weekday
header are skipped.

The output defaults to the PDF's name with the format's extension; use
--output - to write to stdout.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindFormatFlag,
	RunE:    runParse,
}

// bindFormatFlag binds the running command's --format flag. Binding at run
// time lets parse and batch share the output.format key.
func bindFormatFlag(cmd *cobra.Command, args []string) error {
	return viper.BindPFlag("output.format", cmd.Flags().Lookup("format"))
}

func runParse(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	if info, err := os.Stat(pdfPath); err != nil || info.IsDir() {
		return fmt.Errorf("input PDF not found: %s", pdfPath)
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		output = base + "." + string(format)
	}

	runner, err := newRunner(os.Stderr)
	if err != nil {
		return err
	}
	records, err := runner.ParseFile(cmd.Context(), pdfPath)
	if err != nil {
		return err
	}
	return writeRecords(output, format, records, export.Options{})
}

func init() {
	parseCmd.Flags().StringP("output", "o", "", "output file, or - for stdout (default: <pdf name>.<format>)")
	parseCmd.Flags().String("format", "csv", "output format: csv, json, yaml or ics")

	rootCmd.AddCommand(parseCmd)
}
