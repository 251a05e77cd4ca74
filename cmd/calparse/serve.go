// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/calparse/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload page",
	Long: `Serve starts a web page where a ZIP archive of calendar PDFs can be
uploaded. The events are shown in a table sorted by date and offered as
calendar_events.csv.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "calparse: ", log.LstdFlags)

	runner, err := newRunner(logger.Writer())
	if err != nil {
		return err
	}
	cfg := serveConfig()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.New(runner, cfg, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
		logger.Printf("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-upload-mb", 64, "largest accepted upload, in MB")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("serve.max_upload_mb", serveCmd.Flags().Lookup("max-upload-mb"))

	rootCmd.AddCommand(serveCmd)
}
