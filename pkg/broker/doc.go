// Package broker implements the in-process delivery layer of the relay: a
// room directory mapping room keys to live connection ids, and a broker that
// owns the connections and fans published events out to room members.
//
// The broker is transport-agnostic. A transport calls Connect when a client
// attaches, Identify when the client declares who it is (joining user_<id>,
// a chat room, or the anonymous room), and Disconnect when the client goes
// away; it drains Conn.Events() to push events to the wire. Publishers call
// Publish with a room key; BroadcastRoom addresses every live connection.
//
// Delivery is best-effort, at-most-once per connected endpoint. A push to a
// closed or saturated endpoint is dropped: counted in the return value of
// Publish, logged at debug level, never queued and never retried. Nothing in
// this package is persisted; all state is rebuilt as clients reconnect.
package broker
