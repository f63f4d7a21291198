package stream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SaribMalek/relay/pkg/broker"
	"github.com/SaribMalek/relay/pkg/chat"
	"github.com/SaribMalek/relay/pkg/logger"
)

// Inbound event types a client may send.
const (
	eventIdentify = "identify"
	eventJoin     = "join"
	eventMessage  = "message"
)

// Config holds websocket transport tunables loaded from the environment.
type Config struct {
	WriteTimeout    time.Duration `env:"STREAM_WRITE_TIMEOUT" envDefault:"10s"`     // WriteTimeout bounds a single outbound frame write.
	PongTimeout     time.Duration `env:"STREAM_PONG_TIMEOUT" envDefault:"60s"`      // PongTimeout closes connections that stop answering pings.
	PingInterval    time.Duration `env:"STREAM_PING_INTERVAL" envDefault:"50s"`     // PingInterval must be shorter than PongTimeout.
	MaxMessageBytes int64         `env:"STREAM_MAX_MESSAGE_BYTES" envDefault:"4096"` // MaxMessageBytes caps an inbound frame.
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// Service bridges websocket clients and the delivery broker: each upgraded
// connection gets a broker registration, a reader goroutine dispatching
// inbound events and a writer goroutine draining broker deliveries.
type Service struct {
	cfg      Config
	broker   *broker.Broker
	chat     *chat.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates the websocket transport around the broker and chat service.
func New(cfg Config, b *broker.Broker, chatSvc *chat.Service, opts ...Option) *Service {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 60 * time.Second
	}
	if cfg.PingInterval <= 0 || cfg.PingInterval >= cfg.PongTimeout {
		cfg.PingInterval = cfg.PongTimeout * 5 / 6
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 4096
	}

	s := &Service{
		cfg:    cfg,
		broker: b,
		chat:   chatSvc,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients carry no credentials, so origin gating buys nothing.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("stream"))
	return s
}

// Handle returns the upgrade endpoint, ready to be mounted at /ws.
func (s *Service) Handle() http.Handler {
	return http.HandlerFunc(s.serve)
}

// envelope is the typed inbound frame. Fields beyond Type are filled
// depending on the event.
type envelope struct {
	Type   string `json:"type"`
	UserID *int64 `json:"userId,omitempty"`
	Room   string `json:"room,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text,omitempty"`
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Debug("websocket upgrade rejected", logger.Error(err))
		return
	}

	conn, err := s.broker.Connect()
	if err != nil {
		_ = ws.Close()
		return
	}
	defer func() {
		s.broker.Disconnect(conn.ID())
		_ = ws.Close()
	}()

	go s.writeLoop(ws, conn)
	s.readLoop(r.Context(), ws, conn)
}

// readLoop decodes inbound frames until the peer goes away. Any read error,
// including a clean close, ends the connection.
func (s *Service) readLoop(ctx context.Context, ws *websocket.Conn, conn *broker.Conn) {
	ws.SetReadLimit(s.cfg.MaxMessageBytes)
	_ = ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	for {
		var env envelope
		if err := ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed",
					logger.ConnectionID(conn.ID()),
					logger.Error(err),
				)
			}
			return
		}
		s.dispatch(ctx, conn, env)
	}
}

// writeLoop is the only writer on the socket. It drains broker deliveries
// and keeps the connection alive with pings; it exits when the event channel
// closes on disconnect or when a write fails.
func (s *Service) writeLoop(ws *websocket.Conn, conn *broker.Conn) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-conn.Events():
			_ = ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := ws.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Service) dispatch(ctx context.Context, conn *broker.Conn, env envelope) {
	switch env.Type {
	case eventIdentify:
		roomKey := ""
		if env.UserID != nil {
			roomKey = broker.UserRoom(*env.UserID)
		}
		if err := s.broker.Identify(conn.ID(), roomKey, env.Name, env.Role); err != nil {
			s.logger.Warn("identify failed", logger.ConnectionID(conn.ID()), logger.Error(err))
		}

	case eventJoin:
		if env.Room == "" {
			s.logger.Debug("join without a room ignored", logger.ConnectionID(conn.ID()))
			return
		}
		if err := s.broker.Identify(conn.ID(), env.Room, env.Name, env.Role); err != nil {
			s.logger.Warn("join failed", logger.ConnectionID(conn.ID()), logger.Error(err))
		}

	case eventMessage:
		in := chat.PostInput{
			Room:   env.Room,
			Sender: env.Sender,
			Role:   env.Role,
			Text:   env.Text,
		}
		if in.Sender == "" {
			in.Sender = conn.Name()
		}
		if in.Role == "" {
			in.Role = conn.Role()
		}
		if _, err := s.chat.Post(ctx, in); err != nil {
			s.logger.Warn("message rejected",
				logger.ConnectionID(conn.ID()),
				logger.Room(env.Room),
				logger.Error(err),
			)
		}

	default:
		s.logger.Debug("unknown event type dropped",
			logger.ConnectionID(conn.ID()),
			logger.Event(env.Type),
		)
	}
}
