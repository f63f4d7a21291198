package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SaribMalek/relay/migrations"
	"github.com/SaribMalek/relay/modules/api"
	"github.com/SaribMalek/relay/modules/stream"
	"github.com/SaribMalek/relay/pkg/broker"
	"github.com/SaribMalek/relay/pkg/chat"
	"github.com/SaribMalek/relay/pkg/config"
	"github.com/SaribMalek/relay/pkg/httpserver"
	"github.com/SaribMalek/relay/pkg/logger"
	"github.com/SaribMalek/relay/pkg/notification"
	"github.com/SaribMalek/relay/pkg/pg"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	HTTP   httpserver.Config
	PG     pg.Config
	Broker broker.Config
	Stream stream.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(logger.WithEnvironment(cfg.Environment, "relay"))

	ctx := context.Background()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, ".", cfg.PG, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	dir := broker.NewDirectory()
	hub := broker.New(dir,
		broker.WithLogger(log),
		broker.WithBufferSize(cfg.Broker.BufferSize),
	)

	notifications := notification.NewService(
		notification.NewPostgresStorage(pool),
		notification.NewBrokerDeliverer(hub, notification.WithBrokerDelivererLogger(log)),
		notification.WithLogger(log),
	)
	chatSvc := chat.NewService(
		chat.NewPostgresStorage(pool),
		hub,
		chat.WithLogger(log),
	)

	apiSvc := api.New(notifications, chatSvc, api.WithLogger(log))
	streamSvc := stream.New(cfg.Stream, hub, chatSvc, stream.WithLogger(log))

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, pg.Healthcheck(pool)))
	r.Handle("/ws", streamSvc.Handle())
	r.Mount("/", apiSvc.Handle())

	server := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("relay listening")
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			// Closing the hub disconnects every websocket client, which
			// unblocks their reader and writer goroutines before the pool
			// goes away.
			_ = hub.Close()
			l.Info("broker closed")
		}),
	)

	return server.Run(ctx, r)
}
