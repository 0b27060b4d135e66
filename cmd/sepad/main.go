// Command sepad serves SEPA document assembly over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoniacou/sepa-king/internal/config"
	"github.com/amoniacou/sepa-king/internal/logging"
	"github.com/amoniacou/sepa-king/internal/server"
	"github.com/amoniacou/sepa-king/pkg/sepa"
	"github.com/amoniacou/sepa-king/pkg/xsd"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sepad: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logger.Info("starting sepad",
		"http_port", cfg.HTTPPort,
		"schema_dir", cfg.SchemaDir,
	)

	var validator sepa.SchemaValidator
	if cfg.SchemaDir != "" {
		validator = xsd.NewFileValidator(cfg.SchemaDir)
	} else {
		logger.Warn("SEPA_SCHEMA_DIR not set, rendered documents are not validated against XSD definitions")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: server.New(logger, validator).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}
