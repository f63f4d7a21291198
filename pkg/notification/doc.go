// Package notification implements the publish side of the relay for
// personal and broadcast notifications.
//
// The package follows a layered design:
//
//   - Storage: durable append-only persistence (Postgres in production,
//     memory for development and tests)
//   - Deliverer: best-effort real-time push (broker-backed in production)
//   - Service: orchestration - validate, persist, then fan out
//
// Persistence and delivery are deliberately decoupled: a notification whose
// write succeeded is returned to the publisher even if nobody was connected
// to receive it, while a failed write aborts the flow before any delivery
// attempt. There is no retry anywhere in this package.
package notification
