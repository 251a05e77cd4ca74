package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/calparse/internal/batch"
	"github.com/pdiddy/calparse/internal/classify"
	"github.com/pdiddy/calparse/internal/export"
	"github.com/pdiddy/calparse/internal/extract"
	"github.com/pdiddy/calparse/pkg/types"
)

// extractConfig assembles the extraction settings from viper: layout
// thresholds plus the vocabulary file, if one is configured.
func extractConfig() (types.ExtractConfig, error) {
	cfg := types.DefaultExtractConfig()
	if err := viper.UnmarshalKey("layout", &cfg.Layout); err != nil {
		return cfg, fmt.Errorf("reading layout config: %w", err)
	}
	if path := viper.GetString("vocabulary"); path != "" {
		v, err := classify.LoadVocabulary(path)
		if err != nil {
			return cfg, err
		}
		cfg.Vocabulary = v
	}
	return cfg.Normalized(), nil
}

// newRunner builds the extraction pipeline. Page warnings and per-document
// progress go to w.
func newRunner(w io.Writer) (*batch.Runner, error) {
	cfg, err := extractConfig()
	if err != nil {
		return nil, err
	}
	return batch.New(extract.New(cfg, w), batch.PDFOpener{}, w), nil
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		DBPath:     viper.GetString("store.db_path"),
		MaxResults: viper.GetInt("store.max_results"),
	}
}

func serveConfig() types.ServeConfig {
	return types.ServeConfig{
		Addr:        viper.GetString("serve.addr"),
		MaxUploadMB: viper.GetInt64("serve.max_upload_mb"),
	}
}

func outputFormat() (types.OutputFormat, error) {
	f := types.OutputFormat(strings.ToLower(viper.GetString("output.format")))
	switch f {
	case types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatICS:
		return f, nil
	case "":
		return types.FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported format %q: use csv, json, yaml or ics", f)
}

// writeRecords writes records to path, or to stdout when path is "-", and
// reports the row count. The report goes to stderr when the records
// themselves go to stdout.
func writeRecords(path string, format types.OutputFormat, records []types.Record, opts export.Options) error {
	if path == "-" {
		if err := export.Write(os.Stdout, format, records, opts); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to stdout\n", len(records))
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(f, format, records, opts); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(records), path)
	return nil
}
