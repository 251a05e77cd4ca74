// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/calparse/internal/batch"
	"github.com/pdiddy/calparse/internal/export"
)

var batchCmd = &cobra.Command{
	Use:   "batch <zip|dir|pdf>...",
	Short: "Extract events from many PDFs, directories or ZIP archives",
	Long: `Batch processes every PDF named on the command line, found under a
directory, or stored in a ZIP archive. Rows are tagged with the source PDF
name, sorted by date and written with an extra "Source PDF" column.

A PDF that cannot be read is reported and skipped; the command exits
non-zero when any document failed.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: bindFormatFlag,
	RunE:    runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "calendar_events." + string(format)
	}

	runner, err := newRunner(os.Stderr)
	if err != nil {
		return err
	}
	res, err := runner.ProcessPaths(cmd.Context(), args)
	if errors.Is(err, batch.ErrNoDocuments) {
		fmt.Fprintln(os.Stderr, "warning: no PDF files found in the inputs")
		return nil
	}
	if err != nil {
		return err
	}

	if err := writeRecords(output, format, res.Records, export.Options{IncludeSource: true}); err != nil {
		return err
	}
	if res.HasFailures() {
		return fmt.Errorf("%d document(s) failed", res.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().StringP("output", "o", "", "output file, or - for stdout (default: calendar_events.<format>)")
	batchCmd.Flags().String("format", "csv", "output format: csv, json, yaml or ics")

	rootCmd.AddCommand(batchCmd)
}
