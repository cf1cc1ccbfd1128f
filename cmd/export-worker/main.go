package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Leobor91/Finanzas-Personales/internal/amqp"
	"github.com/Leobor91/Finanzas-Personales/internal/cli"
	applog "github.com/Leobor91/Finanzas-Personales/internal/log"
	"github.com/Leobor91/Finanzas-Personales/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting export-worker",
		applog.FieldComponent, applog.ComponentWorker,
		"export_path", cfg.ExportPath)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exporter := worker.NewExportWorker(repo, cfg.ExportPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeMovementCreated(ctx, exporter.HandleMovementCreated)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Export worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Export worker stopped gracefully")
}
