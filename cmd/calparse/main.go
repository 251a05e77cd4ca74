// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the calparse CLI, which extracts
// calendar events from calendar PDFs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the calparse CLI.
var rootCmd = &cobra.Command{
	Use:   "calparse",
	Short: "Extract calendar events from calendar PDFs",
	Long: `calparse reads calendar PDFs (one day per page, a time column on the
left, free-text entries on the right) and writes one row per event with the
page date, event name, meeting place and person.

Parse a single PDF with parse, many PDFs or ZIP archives with batch, keep
results in a searchable SQLite store with store, or run the upload page
with serve.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./calparse.yaml or ~/.config/calparse/calparse.yaml)")
	rootCmd.PersistentFlags().String("vocabulary", "", "YAML vocabulary file overriding the keyword tables")
	viper.BindPFlag("vocabulary", rootCmd.PersistentFlags().Lookup("vocabulary"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("layout.line_tolerance", 3.0)
	viper.SetDefault("layout.time_column_x", 70.0)
	viper.SetDefault("layout.indent_threshold", 25.0)
	viper.SetDefault("layout.footer_min_x", 200.0)
	viper.SetDefault("output.format", "csv")
	viper.SetDefault("store.db_path", "calendar.db")
	viper.SetDefault("store.max_results", 100)
	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("serve.max_upload_mb", 64)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("calparse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "calparse"))
		}
	}

	viper.SetEnvPrefix("CALPARSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
