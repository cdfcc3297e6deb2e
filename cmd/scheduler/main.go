package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawplanner/internal/config"
	"pawplanner/internal/editor"
	"pawplanner/internal/events"
	"pawplanner/internal/metrics"
	"pawplanner/internal/model"
	"pawplanner/internal/scheduleapi"
	"pawplanner/internal/server"
	"pawplanner/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("PAWPLANNER_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	client := scheduleapi.NewClient(cfg.API.BaseURL, cfg.API.APIKey)
	client.SetRateLimit(cfg.API.RatePerSecond, cfg.API.Burst)

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.API.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client.UseRedisCache(rdb, time.Duration(cfg.API.CacheTTLSeconds)*time.Second)
	}

	bus := events.NewBus()
	bus.Subscribe(events.TypeScheduleSaved, func(e events.Event) {
		logger.Info().Int64("employee_id", e.EmployeeID).
			Time("date", e.Date).Msg("schedule saved")
	})
	bus.Subscribe(events.TypeScheduleDeleted, func(e events.Event) {
		logger.Info().Int64("employee_id", e.EmployeeID).
			Time("date", e.Date).Msg("schedule deleted")
	})

	st := store.New(client, bus, &logger)
	defaultHours := model.TimeRange{Start: cfg.Schedule.DefaultStart, End: cfg.Schedule.DefaultEnd}
	ed := editor.New(st, defaultHours, &logger)
	srv := server.New(st, ed, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("schedule service started")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
