package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/silverbar/params"
	"github.com/uhyunpark/silverbar/pkg/api"
	"github.com/uhyunpark/silverbar/pkg/events"
	"github.com/uhyunpark/silverbar/pkg/feeder"
	"github.com/uhyunpark/silverbar/pkg/orders"
	"github.com/uhyunpark/silverbar/pkg/storage"
	"github.com/uhyunpark/silverbar/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLoggerWithFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Log.File, "level", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Event sinks ----
	var sinks []events.Sink

	if cfg.Journal.Path != "" {
		journal, err := storage.OpenJournal(cfg.Journal.Path)
		if err != nil {
			sugar.Fatalw("journal_open_failed", "path", cfg.Journal.Path, "err", err)
		}
		defer journal.Close()
		sinks = append(sinks, journal)
		sugar.Infow("journal_enabled", "path", cfg.Journal.Path, "last_seq", journal.LastSeq())
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		sinks = append(sinks, publisher)
		sugar.Infow("kafka_enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	// ---- Registry ----
	dispatcher := events.NewDispatcher(cfg.Events.Buffer, logger, util.RealClock{}, sinks...)
	registry := orders.NewRegistry(
		orders.WithLogger(logger),
		orders.WithListener(dispatcher),
	)
	apiServer := api.NewServer(registry, logger, cfg.API.AllowedOrigins)
	dispatcher.AddSink(apiServer)

	dispatcherDone := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(dispatcherDone)
	}()

	// ---- Order Feeder (optional) ----
	// Enable with: ENABLE_ORDERGEN=true
	if cfg.Feeder.Enabled {
		fc := feeder.DefaultConfig()
		fc.Interval = cfg.Feeder.Interval
		fc.BatchSize = cfg.Feeder.BatchSize
		fc.NumUsers = cfg.Feeder.NumUsers
		cancelFeeder := feeder.StartFeeder(ctx, registry, fc, logger)
		defer cancelFeeder()
	} else {
		sugar.Info("feeder_disabled")
	}

	// ---- API Server ----
	if err := apiServer.Start(ctx, cfg.API.Addr, cfg.API.BroadcastInterval); err != nil {
		sugar.Errorw("api_server_failed", "err", err)
		stop()
	}

	<-dispatcherDone
	sugar.Infow("server_stopped",
		"live_orders", registry.Len(),
		"events_dropped", dispatcher.Dropped())
}
