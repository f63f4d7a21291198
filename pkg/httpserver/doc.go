// Package httpserver wraps net/http.Server with functional options, graceful
// shutdown on context cancellation or SIGINT/SIGTERM, start/stop hooks and a
// health-check handler for liveness and readiness probes.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStopHook(func(log *slog.Logger) { broker.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
package httpserver
