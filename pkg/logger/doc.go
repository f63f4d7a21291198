// Package logger builds configured log/slog loggers for the relay.
//
// New applies functional options over production-safe defaults (JSON handler
// at INFO level) and wraps the handler with a decorator that injects
// attributes extracted from context on every log call.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "relay"),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//
// The package also provides typed attribute helpers (Error, UserID, Room,
// ConnectionID, ...) so attribute keys stay consistent across packages.
package logger
