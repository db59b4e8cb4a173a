package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-ledger-summary-service/cmd/summarizer/config"
	"golang-ledger-summary-service/internal/server"
	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/logger"

	"github.com/spf13/cobra"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summary views over HTTP",
	Long: `Serve starts an HTTP server exposing the summary pipeline.

GET / accepts start_date, end_date, statuses (repeatable), sort_by and an
optional month (YYYY-MM, defaults to the current month). Add format=json for
a machine-readable response. GET /healthz reports liveness.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenFlag, "listen", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()
	log := logger.GetGlobalLogger().WithComponent("serve")

	settings, err := config.Load()
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	if listenFlag != "" {
		settings.ListenAddr = listenFlag
	}

	datasetLoader, err := settings.NewLoader()
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	service := summarize.NewService(datasetLoader, settings.ServiceConfig())
	srv, err := server.NewServer(service, time.Now)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	httpServer := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", settings.ListenAddr).Info("http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		os.Exit(handler.HandleError(err))
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			os.Exit(handler.HandleError(err))
		}
	}
	return nil
}
