package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Room records the room key under the key "room".
func Room(key string) slog.Attr {
	return slog.String("room", key)
}

// ConnectionID records the connection identifier under the key "connection_id".
func ConnectionID(id string) slog.Attr {
	return slog.String("connection_id", id)
}

// Delivered records a delivery-attempt count under the key "delivered".
func Delivered(n int) slog.Attr {
	return slog.Int("delivered", n)
}

// NotificationID records the notification identifier under the key "notification_id".
func NotificationID(id int64) slog.Attr {
	return slog.Int64("notification_id", id)
}

// MessageID records the chat message identifier under the key "message_id".
func MessageID(id int64) slog.Attr {
	return slog.Int64("message_id", id)
}
