// Command piggy-feed follows the ledger change feed and logs every event
// together with running totals.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"piggy/internal/amqp"
	"piggy/internal/cli"
	applog "piggy/internal/log"
)

const reportInterval = time.Minute

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(slog.LevelInfo))
	logger := cli.SetupLogger(cfg.Level()).With(applog.FieldComponent, applog.ComponentFeed)

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the change feed consumer")
		os.Exit(1)
	}

	logger.Info("Starting piggy-feed", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close error", "error", err)
		}
	})

	t := newTally()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeLedgerEvents(gctx, func(ctx context.Context, ev *amqp.LedgerEvent) error {
			t.record(ev)
			logger.InfoContext(ctx, "Ledger event",
				"kind", ev.Kind,
				applog.FieldTransactionID, ev.ID,
				applog.FieldPersisted, ev.Persisted,
				"at", ev.Timestamp)
			if !ev.Persisted {
				logger.WarnContext(ctx, "Ledger change was not persisted", "kind", ev.Kind, applog.FieldTransactionID, ev.ID)
			}
			return nil
		})
	})
	g.Go(func() error {
		ticker := time.NewTicker(reportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if snap := t.snapshot(); snap.total > 0 {
					logger.Info("Change feed totals", snap.attrs()...)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Change feed consumer failed", "error", err)
		_ = client.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Change feed totals", t.snapshot().attrs()...)
	logger.Info("piggy-feed stopped")
}
