package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/SaribMalek/relay/pkg/broker"
	"github.com/SaribMalek/relay/pkg/logger"
)

// DefaultHistoryLimit bounds how much history History returns.
const DefaultHistoryLimit = 1000

// Publisher is the room fan-out side the chat service needs from the
// delivery broker.
type Publisher interface {
	Publish(roomKey string, ev broker.Event) int
}

// PostInput is a normalized inbound chat message.
type PostInput struct {
	Room   string `json:"room" validate:"required"`
	Sender string `json:"sender" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=producer consumer"`
	Text   string `json:"text" validate:"required"`
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithHistoryLimit overrides the default history size.
func WithHistoryLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// Service persists chat messages and fans them out to the posting room.
type Service struct {
	storage      Storage
	publisher    Publisher
	validate     *validator.Validate
	logger       *slog.Logger
	historyLimit int
}

// NewService creates a chat service. A nil publisher disables fan-out.
func NewService(storage Storage, publisher Publisher, opts ...ServiceOption) *Service {
	s := &Service{
		storage:      storage,
		publisher:    publisher,
		validate:     validator.New(),
		logger:       slog.Default(),
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Post validates the message, persists it, then broadcasts the stored row to
// every current member of the room, sender included. A store failure aborts
// before any delivery attempt.
func (s *Service) Post(ctx context.Context, in PostInput) (*Message, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, errors.Join(ErrValidation, err)
	}

	m := Message{
		Room:   in.Room,
		Sender: in.Sender,
		Role:   in.Role,
		Text:   in.Text,
	}

	if err := s.storage.Create(ctx, &m); err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	if s.publisher != nil {
		delivered := s.publisher.Publish(m.Room, broker.Event{
			Name:    broker.EventMessage,
			Payload: m,
		})
		s.logger.LogAttrs(ctx, slog.LevelDebug, "message fan-out complete",
			logger.MessageID(m.ID),
			logger.Room(m.Room),
			logger.Delivered(delivered),
		)
	}

	return &m, nil
}

// History returns up to the configured limit of most recent messages in
// chronological order, so a joining client can replay the conversation
// before live messages arrive. An empty room spans all rooms.
func (s *Service) History(ctx context.Context, room string) ([]Message, error) {
	list, err := s.storage.History(ctx, room, s.historyLimit)
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return list, nil
}
