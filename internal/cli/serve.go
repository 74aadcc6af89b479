package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/app"
	logpkg "github.com/kailas-cloud/gallerysrc/internal/logger"
	"github.com/kailas-cloud/gallerysrc/internal/metrics"
	chiTransport "github.com/kailas-cloud/gallerysrc/internal/transport/chi"
	"github.com/kailas-cloud/gallerysrc/internal/version"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue operations over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides http.port)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.HTTP.Port = port
	}

	e := env()
	logger, err := logpkg.NewLogger(e, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gallerysrc API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", e),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("site", cfg.Site.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, &cfg, logger, app.Options{Registerer: prometheus.DefaultRegisterer})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := metrics.RegisterHTTPMetrics(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	server := chiTransport.NewServer(a.Listings, a.Search, a.Galleries, a.Assets, a.Health, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
