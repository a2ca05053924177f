package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"subwaystatus.org/internal/app"
	"subwaystatus.org/internal/appconf"
	"subwaystatus.org/internal/clock"
	"subwaystatus.org/internal/feeds"
	"subwaystatus.org/internal/logging"
	"subwaystatus.org/internal/metrics"
	"subwaystatus.org/internal/restapi"
	"subwaystatus.org/internal/stations"
)

// ParseList splits a comma separated flag value and trims each entry.
func ParseList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// NewLogger returns a JSON logger in production and a text logger
// otherwise. Verbose enables debug output.
func NewLogger(cfg appconf.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	if cfg.Env == appconf.Production {
		return logging.NewStructuredLogger(os.Stdout, level)
	}
	return logging.NewTextLogger(os.Stdout, level)
}

// BuildApplication validates cfg, loads the station index and wires the
// status service.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := NewLogger(cfg)
	m := metrics.NewWithLogger(logger)
	clk := clock.RealClock{}

	idx, report := stations.Load(context.Background(), cfg.StationPaths, logger)
	m.SetStationIndex(report.Loaded, report.Skipped)

	status := feeds.NewService(feeds.Options{
		Fetcher:    feeds.NewFetcher(nil),
		Stations:   idx,
		Clock:      clk,
		Metrics:    m,
		Logger:     logger,
		OutagesURL: cfg.OutagesURL,
	})

	return &app.Application{
		Config:        cfg,
		Logger:        logger,
		Stations:      idx,
		StationReport: report,
		Status:        status,
		Clock:         clk,
		Metrics:       m,
	}, nil
}

// CreateServer builds the HTTP server. The write timeout leaves room for a
// full realtime fetch.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: feeds.RealtimeTimeout + 15*time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run serves until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, api *restapi.RestAPI, logger *slog.Logger) error {
	defer api.Shutdown()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
