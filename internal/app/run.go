package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"climate-server/internal/config"
	db "climate-server/internal/db"
	httpapi "climate-server/internal/httpapi"
	climate "climate-server/internal/modules/climate"
	"climate-server/internal/modules/climate/types"
	climateviews "climate-server/internal/modules/climate/views"
	"climate-server/internal/observability"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
		"tobsStation", cfg.TobsStation,
		"tobsWindowDays", cfg.TobsWindowDays,
	)
	dbConn, err := db.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.VerifySchema(ctx, dbConn, types.Schema); err != nil {
		return err
	}
	slog.Info("database connection successful")

	if err := climateviews.LoadTemplates(); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	metrics := observability.NewMetrics()
	mux := httpapi.NewMux(dbConn, metrics)
	climate.RegisterFeature(mux, dbConn, cfg, metrics)

	srv := httpapi.NewServer(cfg, mux, metrics)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("http shutting down", "timeout", cfg.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
