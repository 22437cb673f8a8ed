package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/auth"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/config"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/db"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/excel"
	httphandler "github.com/mishab-ka/fleetwave-portal-sub002/internal/http"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/http/middleware"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/logger"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/pdf"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/repository"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect database")
		return err
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	attendanceService := service.NewAttendanceService(
		repository.NewVehicleRepository(database),
		repository.NewReportRepository(database),
		repository.NewOverrideRepository(database),
		cfg,
	)
	exportService := service.NewExportService(attendanceService, excel.NewGenerator(), pdf.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(attendanceService, exportService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment, cfg.HTTP.CORSOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("shift_mode", string(cfg.Attendance.ShiftMode)).
			Str("timezone", cfg.Attendance.Location.String()).
			Msg("starting attendance service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
