// Package pg manages the PostgreSQL side of the relay: connection pooling
// via pgxpool with startup retries, schema migrations via goose over an
// embedded filesystem, and a healthcheck closure for readiness probes.
//
// A connect failure after all retry attempts is returned to the caller; the
// relay treats that as fatal at startup, there is no degraded read-only mode.
package pg
