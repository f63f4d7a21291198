package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores one parsed copy per configuration type so the environment is
// only read once per type for the lifetime of the process.
type cache struct {
	mu     sync.RWMutex
	values map[string]any
}

var (
	loaded = &cache{values: make(map[string]any)}

	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// The default .env file is loaded into the process environment on the first
// call; a missing .env file is not an error. Each configuration type is
// parsed at most once and served from cache afterwards.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if cfg == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	loaded.mu.RLock()
	if v, ok := loaded.values[key]; ok {
		*cfg = v.(T)
		loaded.mu.RUnlock()
		return nil
	}
	loaded.mu.RUnlock()

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	// Another goroutine may have parsed the same type while we waited.
	if v, ok := loaded.values[key]; ok {
		*cfg = v.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	// Store a copy so later callers cannot mutate the cached value.
	loaded.values[key] = *cfg
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the process cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset clears the config cache. Only useful in tests that mutate the
// process environment between loads.
func Reset() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	clear(loaded.values)
}

// typeName returns a stable cache key for the generic type T.
func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
