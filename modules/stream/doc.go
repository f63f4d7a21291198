// Package stream is the realtime transport: a websocket endpoint connecting
// clients to the delivery broker.
//
// A client sends typed JSON frames (identify, join, message) and receives
// broker events (notification, message) as {type, payload} frames. Delivery
// is best-effort; a client that falls behind or disconnects simply misses
// events, there is no replay on this channel. Backlog lives in the HTTP API.
package stream
