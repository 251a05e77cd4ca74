// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/calparse/internal/batch"
	"github.com/pdiddy/calparse/internal/export"
	"github.com/pdiddy/calparse/internal/store"
	"github.com/pdiddy/calparse/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the calendar store (ingest, query, export)",
	Long: `Store keeps extracted events in a local SQLite database with FTS5
indexing over event name, meeting place and person. Use subcommands to
ingest PDFs, query events, or export them.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <zip|dir|pdf>...",
	Short: "Parse PDFs and store their events",
	Long: `Ingest parses every PDF in the inputs, as batch does, and stores the
events under the PDF's name. Ingesting a PDF again replaces its events.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
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

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	bySource := make(map[string][]types.Record)
	for _, r := range res.Records {
		bySource[r.Source] = append(bySource[r.Source], r)
	}

	var ingested, replaced int
	for _, src := range res.Sources {
		wasStored, err := s.Ingest(cmd.Context(), src, bySource[src])
		if err != nil {
			return err
		}
		if wasStored {
			fmt.Printf("replaced %s (%d events)\n", src, len(bySource[src]))
			replaced++
		} else {
			fmt.Printf("ingested %s (%d events)\n", src, len(bySource[src]))
			ingested++
		}
	}
	fmt.Printf("\ningested: %d, replaced: %d, failed: %d\n", ingested, replaced, res.Failed)

	if res.HasFailures() {
		return fmt.Errorf("%d document(s) failed", res.Failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search stored events",
	Long: `Query searches stored events with FTS5 full-text search over event
name, meeting place and person, date bounds, a source filter, or a
combination. Without search text, events are listed in date order.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(records, jsonOutput)
}

func formatQueryOutput(records []types.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(export.Entries(records))
	}

	if len(records) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-40s  %-25s  %-25s  %s\n",
		"Date", "Event Name", "Meeting Place", "Person", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%-10s  %-40s  %-25s  %-25s  %s\n",
			r.DateString(), truncate(r.EventName, 40), truncate(r.MeetingPlace, 25),
			truncate(r.Person, 25), r.Source)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(records))
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export [text]",
	Short: "Export stored events",
	Long: `Export writes all stored events (or a filtered subset, using the same
filters as query) to stdout or --output in YAML, JSON, CSV or iCalendar.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format := types.OutputFormat(strings.ToLower(formatFlag))
	switch format {
	case types.FormatYAML, types.FormatJSON, types.FormatCSV, types.FormatICS:
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json, csv or ics", formatFlag)
	}

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	output, _ := cmd.Flags().GetString("output")
	if output == "" || output == "-" {
		return s.Export(cmd.Context(), os.Stdout, format, opts)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := s.Export(cmd.Context(), f, format, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	return nil
}

// --- sources subcommand ---

var storeSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List ingested PDFs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		docs, err := s.Documents(cmd.Context())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents stored.")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("%-40s  %5d events  %s\n", d.Source, d.Records, d.IngestedAt.Format(time.RFC3339))
		}
		return nil
	},
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) (store.QueryOptions, error) {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := store.QueryOptions{
		Query:      queryText,
		Source:     source,
		MaxResults: limit,
	}

	var err error
	if opts.From, err = dateFlag(cmd, "from"); err != nil {
		return opts, err
	}
	if opts.To, err = dateFlag(cmd, "to"); err != nil {
		return opts, err
	}
	return opts, nil
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(types.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want a date like 2023-09-07: %w", name, err)
	}
	return t, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("db", "calendar.db", "SQLite database file")
	storeCmd.PersistentFlags().Int("max-results", 100, "maximum number of query results")
	viper.BindPFlag("store.db_path", storeCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("store.max_results", storeCmd.PersistentFlags().Lookup("max-results"))

	// Query flags.
	storeQueryCmd.Flags().String("query", "", "full-text search query")
	storeQueryCmd.Flags().String("from", "", "earliest date, YYYY-MM-DD")
	storeQueryCmd.Flags().String("to", "", "latest date, YYYY-MM-DD")
	storeQueryCmd.Flags().String("source", "", "filter by source PDF name")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml, json, csv or ics")
	storeExportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	storeExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	storeExportCmd.Flags().String("from", "", "earliest date, YYYY-MM-DD")
	storeExportCmd.Flags().String("to", "", "latest date, YYYY-MM-DD")
	storeExportCmd.Flags().String("source", "", "filter by source PDF name")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeSourcesCmd)

	rootCmd.AddCommand(storeCmd)
}
