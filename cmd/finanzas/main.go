package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/Leobor91/Finanzas-Personales/internal/amqp"
	"github.com/Leobor91/Finanzas-Personales/internal/cli"
	apphttp "github.com/Leobor91/Finanzas-Personales/internal/http"
	applog "github.com/Leobor91/Finanzas-Personales/internal/log"
	"github.com/Leobor91/Finanzas-Personales/internal/rates"
	"github.com/Leobor91/Finanzas-Personales/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Movement event stream enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP_URL not set, movement events disabled")
	}

	srv := apphttp.NewServer(":"+cfg.Port,
		services.NewMovementService(repo, publisher),
		services.NewQueryService(repo),
		services.NewReportService(repo),
		repo,
		repo,
		rates.NewClient(cfg.FXTimeout),
		cfg.BaseCurrency)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finanzas server",
		"port", cfg.Port,
		applog.FieldComponent, applog.ComponentHTTP,
		"db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
