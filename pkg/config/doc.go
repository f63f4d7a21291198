// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process, struct fields are populated
// from `env` tags, and every configuration type is parsed at most once and
// cached for the lifetime of the process.
//
// Usage:
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// MustLoad panics instead of returning an error; use it for configuration the
// process cannot run without. Sentinel errors (ErrParsingConfig,
// ErrNilPointer) can be matched with errors.Is.
package config
